package models

// SectionLoad is one section's seat usage as read for the admin metrics.
type SectionLoad struct {
	SectionID  int64
	CourseCode string
	Capacity   *int
	Enrolled   int
}

// MetricsSnapshot is the read-only state the admin metrics are derived from.
type MetricsSnapshot struct {
	Sections            []SectionLoad
	UsersByRole         map[RoleType]int
	EnrollmentsByStatus map[EnrollmentStatus]int
	TotalCourses        int
	ActiveTerms         int
}
