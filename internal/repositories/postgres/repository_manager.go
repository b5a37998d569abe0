package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/studyshare-platform/material-service/internal/repositories"
)

// Manager wires the gorm handle into the repository aggregate and owns
// its lifecycle.
type Manager struct {
	db   *gorm.DB
	repo repositories.Repository
}

func NewRepositoryManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

func (m *Manager) Initialize() error {
	if m.db == nil {
		return fmt.Errorf("database handle is required")
	}
	m.repo = NewPostgreSQLRepository(m.db)
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *Manager) Shutdown(_ context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
