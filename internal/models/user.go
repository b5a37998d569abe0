package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// RoleForEmail computes the role assigned at registration. The designated
// admin address is matched case-insensitively; the role never changes after
// the account is created.
func RoleForEmail(email, adminEmail string) UserRole {
	if strings.EqualFold(email, adminEmail) {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	Name     string   `json:"name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;default:user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
