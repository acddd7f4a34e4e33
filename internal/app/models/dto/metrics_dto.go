package dto

// AdminMetrics is the admin dashboard payload.
//
// SeatUtilizationSeries and EnrollmentsSeries are illustrative: they are
// jittered around the current snapshot, not read from history, and
// SyntheticSeries is always true to say so.
type AdminMetrics struct {
	SeatUtilizationSeries   []int                 `json:"seatUtilizationSeries"`
	RegistrationErrorSeries []int                 `json:"registrationErrorSeries"`
	EnrollmentsSeries       []int                 `json:"enrollmentsSeries"`
	SyntheticSeries         bool                  `json:"syntheticSeries"`
	DepartmentUtilization   DepartmentUtilization `json:"departmentUtilization"`
	TopDepartments          []DepartmentStats     `json:"topDepartments"`
	Totals                  MetricsTotals         `json:"totals"`
}

// DepartmentUtilization holds the chart series for two fixed department families.
type DepartmentUtilization struct {
	ComputerScience []int `json:"computerScience"`
	Mathematics     []int `json:"mathematics"`
}

// DepartmentStats aggregates sections by department key.
type DepartmentStats struct {
	Department  string `json:"department" example:"CSC"`
	Utilization int    `json:"utilization" example:"85"`
	Enrolled    int    `json:"enrolled" example:"51"`
	Capacity    int    `json:"capacity" example:"60"`
	Sections    int    `json:"sections" example:"1"`
}

// MetricsTotals are the headline counters.
type MetricsTotals struct {
	TotalStudents      int `json:"totalStudents"`
	TotalCourses       int `json:"totalCourses"`
	TotalSections      int `json:"totalSections"`
	ActiveTerms        int `json:"activeTerms"`
	TotalEnrollments   int `json:"totalEnrollments"`
	Waitlisted         int `json:"waitlisted"`
	DroppedEnrollments int `json:"droppedEnrollments"`
	TotalInstructors   int `json:"totalInstructors"`
	TotalAdmins        int `json:"totalAdmins"`
	OverallUtilization int `json:"overallUtilization"`
	FullSections       int `json:"fullSections"`
	EmptySections      int `json:"emptySections"`
	OpenSections       int `json:"openSections"`
	Alerts             int `json:"alerts"`
}
