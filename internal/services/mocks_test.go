package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/studyshare-platform/material-service/internal/models"
	"github.com/studyshare-platform/material-service/internal/repositories"
	"github.com/studyshare-platform/material-service/internal/storage"
)

// ===== IN-MEMORY REPOSITORY =====

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by email
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return repositories.ErrDuplicate
	}
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[email]
	return ok, nil
}

func (r *memUserRepo) List(_ context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

type memMaterialRepo struct {
	mu        sync.Mutex
	materials map[string]*models.Material
}

func newMemMaterialRepo() *memMaterialRepo {
	return &memMaterialRepo{materials: make(map[string]*models.Material)}
}

func (r *memMaterialRepo) Create(_ context.Context, material *models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now()
	}
	copied := *material
	r.materials[material.ID] = &copied
	return nil
}

func (r *memMaterialRepo) GetByID(_ context.Context, id string) (*models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *memMaterialRepo) Update(_ context.Context, material *models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.materials[material.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *material
	r.materials[material.ID] = &copied
	return nil
}

func (r *memMaterialRepo) Delete(_ context.Context, material *models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.materials, material.ID)
	return nil
}

func (r *memMaterialRepo) FindApproved(ctx context.Context) ([]*models.Material, error) {
	return r.filter(func(m *models.Material) bool { return m.Approved }), nil
}

func (r *memMaterialRepo) FindPending(ctx context.Context) ([]*models.Material, error) {
	return r.filter(func(m *models.Material) bool { return !m.Approved }), nil
}

func (r *memMaterialRepo) FindPendingLatest(ctx context.Context, limit int) ([]*models.Material, error) {
	pending := r.filter(func(m *models.Material) bool { return !m.Approved })
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *memMaterialRepo) FindAll(ctx context.Context) ([]*models.Material, error) {
	return r.filter(func(*models.Material) bool { return true }), nil
}

func (r *memMaterialRepo) filter(keep func(*models.Material) bool) []*models.Material {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Material
	for _, m := range r.materials {
		if keep(m) {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out
}

type memRepository struct {
	users     repositories.UserRepository
	materials repositories.MaterialRepository
}

func newMemRepository() *memRepository {
	return &memRepository{
		users:     newMemUserRepo(),
		materials: newMemMaterialRepo(),
	}
}

func (r *memRepository) User() repositories.UserRepository         { return r.users }
func (r *memRepository) Material() repositories.MaterialRepository { return r.materials }
func (r *memRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}
func (r *memRepository) Ping(context.Context) error { return nil }
func (r *memRepository) Close() error               { return nil }

// raceUserRepo simulates the send-otp/register window: the fast-path
// existence check reports free while the underlying insert still collides.
type raceUserRepo struct {
	repositories.UserRepository
}

func (r *raceUserRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return false, nil
}

// ===== MAILER FAKES =====

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
	fail  error
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: make(map[string]string)}
}

func (m *captureMailer) SendOTP(_ context.Context, email, code string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = code
	return nil
}

func (m *captureMailer) codeFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

// ===== BLOB STORE FAKES =====

var errDiskFailure = errors.New("disk failure")

// flakyBlobStore forwards to a real store but can be told to fail
// individual operations.
type flakyBlobStore struct {
	storage.BlobStore
	failWrite  bool
	failDelete bool
}

func (s *flakyBlobStore) Write(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if s.failWrite {
		return errDiskFailure
	}
	return s.BlobStore.Write(ctx, key, reader, size, contentType)
}

func (s *flakyBlobStore) Delete(ctx context.Context, key string) error {
	if s.failDelete {
		return errDiskFailure
	}
	return s.BlobStore.Delete(ctx, key)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
