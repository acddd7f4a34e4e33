package models

// Section is an offering of a Course within a Term.
type Section struct {
	ID           int64   `json:"id" db:"id" example:"1"`
	CourseID     int64   `json:"courseId" db:"course_id" example:"1"`
	TermID       int64   `json:"termId" db:"term_id" example:"1"`
	Room         *string `json:"room" db:"room" example:"B101"`
	Capacity     *int    `json:"capacity" db:"capacity" example:"60"`
	InstructorID *int64  `json:"instructorId" db:"instructor_id"`

	Course        *Course `json:"course,omitempty"` // Relation, no db tag
	Term          *Term   `json:"term,omitempty"`   // Relation, no db tag
	EnrolledCount int     `json:"enrolledCount"`
}

// HasCapacity reports whether the section declares a positive seat limit.
func (s *Section) HasCapacity() bool {
	return s.Capacity != nil && *s.Capacity > 0
}
