package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID               int64      `json:"id" db:"id"`
	UserID           int64      `json:"userId" db:"user_id"`                       // one student per user
	DepartmentID     *int64     `json:"departmentId,omitempty" db:"department_id"` // Nullable
	EnrollmentNumber string     `json:"enrollmentNumber" db:"enrollment_number"`   // globally unique
	AdmissionDate    *time.Time `json:"admissionDate,omitempty" db:"admission_date"`
	CreatedAt        *time.Time `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}
