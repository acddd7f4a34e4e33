package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleInstructor RoleType = "INSTRUCTOR"
	RoleAdmin      RoleType = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// EnrollmentStatus is the lifecycle state of an enrollment row.
type EnrollmentStatus string

const (
	StatusEnrolled   EnrollmentStatus = "ENROLLED"
	StatusWaitlisted EnrollmentStatus = "WAITLISTED"
	StatusDropped    EnrollmentStatus = "DROPPED"
)

// Valid reports whether s is one of the known statuses.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case StatusEnrolled, StatusWaitlisted, StatusDropped:
		return true
	}
	return false
}
