package models

import "time"

// Enrollment links a User to a Section with a status.
type Enrollment struct {
	ID        int64            `json:"id" db:"id" example:"1"`
	UserID    int64            `json:"userId" db:"user_id" example:"1"`
	SectionID int64            `json:"sectionId" db:"section_id" example:"1"`
	Status    EnrollmentStatus `json:"status" db:"status" example:"ENROLLED"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`

	User    *User    `json:"user,omitempty"`    // Relation, no db tag
	Section *Section `json:"section,omitempty"` // Relation, no db tag
}
