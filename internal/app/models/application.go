package models

import "time"

// Application is a student's application to a course
type Application struct {
	ID                int64             `json:"id" db:"id"`
	StudentID         int64             `json:"studentId" db:"student_id"`
	CourseID          int64             `json:"courseId" db:"course_id"`
	ApplicationStatus ApplicationStatus `json:"applicationStatus" db:"application_status"`
	SubmittedAt       *time.Time        `json:"submittedAt,omitempty" db:"submitted_at"`
	CreatedAt         *time.Time        `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt         *time.Time        `json:"updatedAt,omitempty" db:"updated_at"`
}
