package models

import "time"

// ===== AUTH DTOs =====

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserView is the redacted identity returned to callers. It never carries
// the password credential.
type UserView struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

func NewUserView(u *User) UserView {
	return UserView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// ===== MATERIAL DTOs =====

type UploadMaterialRequest struct {
	MaterialType string `form:"materialType" validate:"required,max=100"`
	Semester     int    `form:"semester" validate:"required,min=1,max=12"`
	Subject      string `form:"subject" validate:"required,max=200"`
}

type RenameMaterialRequest struct {
	FileName string `json:"fileName" validate:"required,max=255"`
}

// MaterialView is the listing shape for non-admin callers. It deliberately
// omits the storage locator; admin endpoints return the full Material.
type MaterialView struct {
	ID           string    `json:"id"`
	MaterialType string    `json:"material_type"`
	Semester     int       `json:"semester"`
	Subject      string    `json:"subject"`
	FileName     string    `json:"file_name"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewMaterialView(m *Material) MaterialView {
	return MaterialView{
		ID:           m.ID,
		MaterialType: m.MaterialType,
		Semester:     m.Semester,
		Subject:      m.Subject,
		FileName:     m.FileName,
		Approved:     m.Approved,
		CreatedAt:    m.CreatedAt,
	}
}
