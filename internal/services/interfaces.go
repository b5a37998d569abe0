package services

import (
	"context"
	"io"

	"github.com/studyshare-platform/material-service/internal/models"
)

// PendingLatestLimit is the fixed size of the admin "latest pending" slice
const PendingLatestLimit = 6

// AuthService is the identity gate: OTP-gated registration plus login.
type AuthService interface {
	// RequestRegistration issues an OTP for a new address and dispatches
	// the code by mail. Delivery failure does not invalidate the code.
	RequestRegistration(ctx context.Context, email string) error

	// Register consumes the OTP and creates the identity. The role is
	// computed once here and never re-derived.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserView, error)

	// Login verifies credentials and issues a session token. The error is
	// identical for unknown email and wrong password.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)

	// ResolveIdentity verifies a bearer token and loads its subject.
	ResolveIdentity(ctx context.Context, token string) (*models.User, error)

	// ListUsers returns redacted views of every identity (admin surface).
	ListUsers(ctx context.Context) ([]models.UserView, error)
}

// MaterialStream couples a material record with its blob content. The
// caller owns Content and must close it.
type MaterialStream struct {
	Material *models.Material
	Content  io.ReadCloser
}

// MaterialService is the moderation gate over the material ledger and the
// blob store.
type MaterialService interface {
	Ingest(ctx context.Context, req *models.UploadMaterialRequest, fileName string, content io.Reader, size int64, contentType, uploadedBy string) (*models.Material, error)

	ListApproved(ctx context.Context) ([]models.MaterialView, error)
	ListPendingLatest(ctx context.Context) ([]*models.Material, error)
	ListAllPending(ctx context.Context) ([]*models.Material, error)
	ListAll(ctx context.Context) ([]*models.Material, error)

	Approve(ctx context.Context, id string) error
	Rename(ctx context.Context, id, fileName string) (*models.Material, error)

	// View streams the blob regardless of approval; the admin-only route
	// enforces who may call it.
	View(ctx context.Context, id string) (*MaterialStream, error)

	// Download streams the blob only for approved materials.
	Download(ctx context.Context, id string) (*MaterialStream, error)

	DeleteByAdmin(ctx context.Context, id string) error
}
