package models

import (
	"time"
)

// Material is an uploaded study document. It is created pending
// (Approved=false) and only becomes visible and downloadable to regular
// users after an admin approves it. FileName is the only field that may
// change after creation; StoragePath always refers to the original blob.
type Material struct {
	ID           string `json:"id" gorm:"primaryKey;size:255"`
	MaterialType string `json:"material_type" gorm:"not null;size:100"`
	Semester     int    `json:"semester" gorm:"not null"`
	Subject      string `json:"subject" gorm:"not null;size:200"`

	FileName    string `json:"file_name" gorm:"not null;size:255"`
	StoragePath string `json:"storage_path" gorm:"not null;size:500"`

	Approved   bool   `json:"approved" gorm:"not null;default:false;index"`
	UploadedBy string `json:"uploaded_by" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Material) TableName() string {
	return "materials"
}
