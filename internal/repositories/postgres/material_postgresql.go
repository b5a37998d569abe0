package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/studyshare-platform/material-service/internal/models"
	"github.com/studyshare-platform/material-service/internal/repositories"
)

type MaterialPostgreSQL struct {
	db *gorm.DB
}

func NewMaterialPostgreSQL(db *gorm.DB) repositories.MaterialRepository {
	return &MaterialPostgreSQL{db: db}
}

func (m *MaterialPostgreSQL) Create(ctx context.Context, material *models.Material) error {
	if err := m.db.WithContext(ctx).Create(material).Error; err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

func (m *MaterialPostgreSQL) GetByID(ctx context.Context, id string) (*models.Material, error) {
	var material models.Material
	if err := m.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return &material, nil
}

func (m *MaterialPostgreSQL) Update(ctx context.Context, material *models.Material) error {
	if err := m.db.WithContext(ctx).Save(material).Error; err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	return nil
}

func (m *MaterialPostgreSQL) Delete(ctx context.Context, material *models.Material) error {
	if err := m.db.WithContext(ctx).Delete(material).Error; err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	return nil
}

func (m *MaterialPostgreSQL) FindApproved(ctx context.Context) ([]*models.Material, error) {
	var materials []*models.Material
	if err := m.db.WithContext(ctx).Where("approved = ?", true).Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("failed to find approved materials: %w", err)
	}
	return materials, nil
}

func (m *MaterialPostgreSQL) FindPending(ctx context.Context) ([]*models.Material, error) {
	var materials []*models.Material
	if err := m.db.WithContext(ctx).Where("approved = ?", false).Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("failed to find pending materials: %w", err)
	}
	return materials, nil
}

func (m *MaterialPostgreSQL) FindPendingLatest(ctx context.Context, limit int) ([]*models.Material, error) {
	var materials []*models.Material
	err := m.db.WithContext(ctx).
		Where("approved = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Find(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find latest pending materials: %w", err)
	}
	return materials, nil
}

func (m *MaterialPostgreSQL) FindAll(ctx context.Context) ([]*models.Material, error) {
	var materials []*models.Material
	if err := m.db.WithContext(ctx).Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}
