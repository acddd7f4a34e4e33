package dto

// TermRequest is the body for creating or renaming a term.
type TermRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"2025 Fall"`
}

// CourseRequest is the body for creating or updating a course.
type CourseRequest struct {
	Code    string `json:"code" binding:"required,max=32" example:"CSC 301"`
	Title   string `json:"title" binding:"required,max=200" example:"Database Systems"`
	Credits int    `json:"credits" binding:"gt=0" example:"3"`
}

// SectionRequest is the body for creating or updating a section. On update,
// nil optional fields keep their stored value.
type SectionRequest struct {
	CourseID     int64   `json:"courseId" binding:"required,gt=0" example:"1"`
	TermID       int64   `json:"termId" binding:"required,gt=0" example:"1"`
	Room         *string `json:"room" binding:"omitempty,max=50" example:"B101"`
	Capacity     *int    `json:"capacity" binding:"omitempty,gt=0" example:"60"`
	InstructorID *int64  `json:"instructorId" binding:"omitempty,gt=0"`
}
