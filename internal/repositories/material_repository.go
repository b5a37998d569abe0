package repositories

import (
	"context"

	"github.com/studyshare-platform/material-service/internal/models"
)

// MaterialRepository is the durable ledger of uploaded-material metadata.
type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id string) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, material *models.Material) error

	// FindApproved returns publicly visible records; callers must not rely
	// on a particular order here.
	FindApproved(ctx context.Context) ([]*models.Material, error)

	// FindPending returns every unapproved record.
	FindPending(ctx context.Context) ([]*models.Material, error)

	// FindPendingLatest returns unapproved records ordered by creation time
	// descending, truncated to limit. This ordering is guaranteed.
	FindPendingLatest(ctx context.Context, limit int) ([]*models.Material, error)

	FindAll(ctx context.Context) ([]*models.Material, error)
}
