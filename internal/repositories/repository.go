package repositories

import (
	"context"
	"errors"
)

// Sentinel errors the persistence implementations translate driver errors
// into, so services never import gorm.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Repository aggregates the per-domain repositories
type Repository interface {
	User() UserRepository
	Material() MaterialRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
