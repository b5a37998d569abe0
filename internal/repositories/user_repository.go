package repositories

import (
	"context"

	"github.com/studyshare-platform/material-service/internal/models"
)

// UserRepository is the credential store, keyed by unique email.
// Create must surface ErrDuplicate for a violated email uniqueness
// constraint: the database index is the authoritative guard against
// concurrent registrations, not the caller's pre-check.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
}
