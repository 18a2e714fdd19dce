package models

import "time"

// Document is a file uploaded for a student
type Document struct {
	ID           int64      `json:"id" db:"id"`
	StudentID    int64      `json:"studentId" db:"student_id"`
	UserID       int64      `json:"userId" db:"user_id"` // uploader
	DocumentType *string    `json:"documentType,omitempty" db:"document_type"`
	FilePath     string     `json:"filePath" db:"file_path"`
	UploadedAt   *time.Time `json:"uploadedAt,omitempty" db:"uploaded_at"`
	CreatedAt    *time.Time `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}
