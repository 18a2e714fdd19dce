package models

import "time"

// Course represents a course offered by a department.
type Course struct {
	ID           int64      `json:"id" db:"id"`
	DepartmentID *int64     `json:"departmentId,omitempty" db:"department_id"` // Nullable, nulled when the department is deleted
	Code         string     `json:"code" db:"code"`
	Title        string     `json:"title" db:"title"`
	CreatedAt    *time.Time `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}
