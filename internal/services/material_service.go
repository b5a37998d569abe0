package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyshare-platform/material-service/internal/models"
	"github.com/studyshare-platform/material-service/internal/repositories"
	"github.com/studyshare-platform/material-service/internal/storage"
	"github.com/studyshare-platform/material-service/internal/validator"
)

type materialService struct {
	repo      repositories.Repository
	blobs     storage.BlobStore
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMaterialService(
	repo repositories.Repository,
	blobs storage.BlobStore,
	logger *slog.Logger,
	validator *validator.Validator,
) MaterialService {
	return &materialService{
		repo:      repo,
		blobs:     blobs,
		logger:    logger,
		validator: validator,
	}
}

func (s *materialService) Ingest(ctx context.Context, req *models.UploadMaterialRequest, fileName string, content io.Reader, size int64, contentType, uploadedBy string) (*models.Material, error) {
	if content == nil || size <= 0 {
		return nil, NewValidationError("File is required")
	}
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs.Error())
	}

	// The storage key is derived from time and a fresh id, never from the
	// user-supplied name: that string is untrusted input.
	key := storageKey(fileName)

	if err := s.blobs.Write(ctx, key, content, size, contentType); err != nil {
		// no record exists yet, so a failed write is invisible to users
		return nil, NewStorageError("File upload failed", err)
	}

	material := &models.Material{
		ID:           uuid.New().String(),
		MaterialType: req.MaterialType,
		Semester:     req.Semester,
		Subject:      req.Subject,
		FileName:     filepath.Base(fileName),
		StoragePath:  key,
		Approved:     false,
		UploadedBy:   uploadedBy,
	}

	if err := s.repo.Material().Create(ctx, material); err != nil {
		// the blob is orphaned but unreferenced; out-of-band cleanup can
		// reclaim it without any user-visible inconsistency
		return nil, NewStorageError("Failed to record upload", err)
	}

	s.logger.Info("Material ingested",
		"material_id", material.ID,
		"subject", material.Subject,
		"uploaded_by", uploadedBy)

	return material, nil
}

func (s *materialService) ListApproved(ctx context.Context) ([]models.MaterialView, error) {
	materials, err := s.repo.Material().FindApproved(ctx)
	if err != nil {
		return nil, NewStorageError("Failed to list materials", err)
	}

	views := make([]models.MaterialView, 0, len(materials))
	for _, m := range materials {
		views = append(views, models.NewMaterialView(m))
	}
	return views, nil
}

func (s *materialService) ListPendingLatest(ctx context.Context) ([]*models.Material, error) {
	materials, err := s.repo.Material().FindPendingLatest(ctx, PendingLatestLimit)
	if err != nil {
		return nil, NewStorageError("Failed to list pending materials", err)
	}
	return materials, nil
}

func (s *materialService) ListAllPending(ctx context.Context) ([]*models.Material, error) {
	materials, err := s.repo.Material().FindPending(ctx)
	if err != nil {
		return nil, NewStorageError("Failed to list pending materials", err)
	}
	return materials, nil
}

func (s *materialService) ListAll(ctx context.Context) ([]*models.Material, error) {
	materials, err := s.repo.Material().FindAll(ctx)
	if err != nil {
		return nil, NewStorageError("Failed to list materials", err)
	}
	return materials, nil
}

func (s *materialService) Approve(ctx context.Context, id string) error {
	material, err := s.getMaterial(ctx, id)
	if err != nil {
		return err
	}

	// approving twice is a no-op success
	if material.Approved {
		return nil
	}

	material.Approved = true
	if err := s.repo.Material().Update(ctx, material); err != nil {
		return NewStorageError("Failed to approve material", err)
	}

	s.logger.Info("Material approved", "material_id", id)
	return nil
}

func (s *materialService) Rename(ctx context.Context, id, fileName string) (*models.Material, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, NewValidationError("Filename cannot be empty")
	}
	if errs := s.validator.Validate(&models.RenameMaterialRequest{FileName: fileName}); errs != nil {
		return nil, NewValidationError(errs.Error())
	}

	material, err := s.getMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	// only the display name changes; the blob locator is immutable
	material.FileName = fileName
	if err := s.repo.Material().Update(ctx, material); err != nil {
		return nil, NewStorageError("Failed to rename material", err)
	}

	return material, nil
}

func (s *materialService) View(ctx context.Context, id string) (*MaterialStream, error) {
	material, err := s.getMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.openStream(ctx, material)
}

func (s *materialService) Download(ctx context.Context, id string) (*MaterialStream, error) {
	material, err := s.getMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	// the moderation boundary: unapproved bytes never leave this gate,
	// no matter how the id was obtained
	if !material.Approved {
		return nil, ErrNotApproved
	}

	return s.openStream(ctx, material)
}

func (s *materialService) DeleteByAdmin(ctx context.Context, id string) error {
	material, err := s.getMaterial(ctx, id)
	if err != nil {
		return err
	}

	// blob first: if this fails for any reason other than the blob already
	// being gone, the metadata record is preserved untouched
	if err := s.blobs.Delete(ctx, material.StoragePath); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		return NewStorageError("Failed to delete file from storage", err)
	}

	if err := s.repo.Material().Delete(ctx, material); err != nil {
		return NewStorageError("Failed to delete material", err)
	}

	s.logger.Info("Material deleted", "material_id", id)
	return nil
}

func (s *materialService) getMaterial(ctx context.Context, id string) (*models.Material, error) {
	material, err := s.repo.Material().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, NewStorageError("Failed to load material", err)
	}
	return material, nil
}

func (s *materialService) openStream(ctx context.Context, material *models.Material) (*MaterialStream, error) {
	content, err := s.blobs.Read(ctx, material.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			// metadata/blob drift surfaces as a plain not-found
			return nil, ErrFileNotFound
		}
		return nil, NewStorageError("Failed to open file", err)
	}

	return &MaterialStream{Material: material, Content: content}, nil
}

// storageKey builds a collision-resistant blob key. Only the extension of
// the original name is kept, lowercased and stripped of path separators.
func storageKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)
}
