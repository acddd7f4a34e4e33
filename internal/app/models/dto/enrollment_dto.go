package dto

import "github.com/yigit/campusportal/internal/app/models"

// CreateEnrollmentRequest registers a user in a section.
type CreateEnrollmentRequest struct {
	UserID    int64 `json:"userId" binding:"required,gt=0" example:"1"`
	SectionID int64 `json:"sectionId" binding:"required,gt=0" example:"1"`
}

// UpdateEnrollmentStatusRequest overwrites an enrollment's status.
type UpdateEnrollmentStatusRequest struct {
	Status models.EnrollmentStatus `json:"status" binding:"required,enrollment_status" example:"WAITLISTED" enums:"ENROLLED,WAITLISTED,DROPPED"`
}
