package services

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/pkg/helpers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	seriesLength       = 7
	topDepartmentLimit = 6
	chartWidth         = 6
	jitterSpread       = 10.0
	emptySectionsAlert = 5
)

var upper = cases.Upper(language.Und)

// DepartmentKey returns the department a course code belongs to: its first
// whitespace-delimited token, upper-cased ("csc 301" => "CSC").
func DepartmentKey(code string) string {
	fields := strings.Fields(code)
	if len(fields) == 0 {
		return ""
	}
	return upper.String(fields[0])
}

// percent returns round(100 * part / whole), or 0 when whole is not positive.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// ComputeMetrics derives the admin dashboard payload from snapshot. The
// series fields are jittered around the current values using rng and carry
// no history.
func ComputeMetrics(snapshot *models.MetricsSnapshot, rng *rand.Rand) *dto.AdminMetrics {
	totals := dto.MetricsTotals{
		TotalStudents:      snapshot.UsersByRole[models.RoleStudent],
		TotalInstructors:   snapshot.UsersByRole[models.RoleInstructor],
		TotalAdmins:        snapshot.UsersByRole[models.RoleAdmin],
		TotalCourses:       snapshot.TotalCourses,
		TotalSections:      len(snapshot.Sections),
		ActiveTerms:        snapshot.ActiveTerms,
		TotalEnrollments:   snapshot.EnrollmentsByStatus[models.StatusEnrolled],
		Waitlisted:         snapshot.EnrollmentsByStatus[models.StatusWaitlisted],
		DroppedEnrollments: snapshot.EnrollmentsByStatus[models.StatusDropped],
	}

	var seatsTaken, seats int
	for _, s := range snapshot.Sections {
		if capacity := helpers.Deref(s.Capacity); capacity > 0 {
			seats += capacity
			seatsTaken += s.Enrolled
			if s.Enrolled >= capacity {
				totals.FullSections++
			}
		}
		if s.Enrolled == 0 {
			totals.EmptySections++
		}
	}
	totals.OverallUtilization = percent(seatsTaken, seats)
	totals.OpenSections = totals.TotalSections - totals.FullSections

	totals.Alerts = totals.FullSections
	if totals.Waitlisted > 0 {
		totals.Alerts++
	}
	if totals.EmptySections > emptySectionsAlert {
		totals.Alerts++
	}

	top := topDepartments(snapshot.Sections)
	overall := totals.OverallUtilization

	return &dto.AdminMetrics{
		SeatUtilizationSeries:   utilizationSeries(overall, rng),
		RegistrationErrorSeries: make([]int, seriesLength),
		EnrollmentsSeries:       enrollmentSeries(totals.TotalEnrollments, rng),
		SyntheticSeries:         true,
		DepartmentUtilization: dto.DepartmentUtilization{
			ComputerScience: departmentChart(top, overall, "CSC", "CS"),
			Mathematics:     departmentChart(top, overall, "MTH", "MAT"),
		},
		TopDepartments: top,
		Totals:         totals,
	}
}

// topDepartments groups sections by department key and returns the six
// departments with the most ENROLLED seats. Ties keep first-seen order.
func topDepartments(sections []models.SectionLoad) []dto.DepartmentStats {
	index := map[string]int{}
	stats := []dto.DepartmentStats{}
	for _, s := range sections {
		key := DepartmentKey(s.CourseCode)
		i, ok := index[key]
		if !ok {
			i = len(stats)
			index[key] = i
			stats = append(stats, dto.DepartmentStats{Department: key})
		}
		stats[i].Sections++
		stats[i].Enrolled += s.Enrolled
		stats[i].Capacity += helpers.Deref(s.Capacity)
	}
	for i := range stats {
		stats[i].Utilization = percent(stats[i].Enrolled, stats[i].Capacity)
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Enrolled > stats[j].Enrolled })
	if len(stats) > topDepartmentLimit {
		stats = stats[:topDepartmentLimit]
	}
	return stats
}

// departmentChart picks the utilization of departments whose key contains
// any of markers, padded or cut to the chart width with fallback.
func departmentChart(top []dto.DepartmentStats, fallback int, markers ...string) []int {
	values := []int{}
	for _, d := range top {
		for _, m := range markers {
			if strings.Contains(d.Department, m) {
				values = append(values, d.Utilization)
				break
			}
		}
	}
	if len(values) == 0 {
		values = append(values, fallback)
	}
	for len(values) < chartWidth {
		values = append(values, fallback)
	}
	return values[:chartWidth]
}

func jitter(rng *rand.Rand) float64 {
	return rng.Float64()*jitterSpread - jitterSpread/2
}

func utilizationSeries(overall int, rng *rand.Rand) []int {
	series := make([]int, seriesLength)
	for i := range series {
		v := math.Max(0, math.Min(100, float64(overall)+jitter(rng)))
		series[i] = int(math.Round(v))
	}
	return series
}

// enrollmentSeries spreads the ENROLLED total over a week with a falling
// registration curve.
func enrollmentSeries(total int, rng *rand.Rand) []int {
	daily := math.Round(float64(total) / seriesLength)
	series := make([]int, seriesLength)
	for i := range series {
		factor := 1 - float64(i)*0.1
		series[i] = max(0, int(math.Round(daily*factor+jitter(rng))))
	}
	return series
}
