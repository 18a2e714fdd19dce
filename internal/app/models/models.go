package models

// Table names of the enrollment schema
const (
	TableUsers        = "users"
	TableDepartments  = "departments"
	TableCourses      = "courses"
	TableStudents     = "students"
	TableApplications = "applications"
	TableDocuments    = "documents"
)

// ApplicationStatus defines the review state of an application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every allowed status, default first
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{ApplicationPending, ApplicationApproved, ApplicationRejected}
}

// Valid reports whether s is one of the allowed statuses
func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses() {
		if s == v {
			return true
		}
	}
	return false
}
