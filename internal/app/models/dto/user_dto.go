package dto

import "github.com/yigit/campusportal/internal/app/models"

// UserRequest is the body for creating or updating a user. Password is
// optional; on update it is only re-hashed when present.
type UserRequest struct {
	Name     string          `json:"name" binding:"required,max=100" example:"Sample Student"`
	Email    string          `json:"email" binding:"required,email" example:"student@example.com"`
	Role     models.RoleType `json:"role" binding:"required,role" example:"STUDENT" enums:"STUDENT,INSTRUCTOR,ADMIN"`
	Password *string         `json:"password" binding:"omitempty,min=8,max=72" example:"password123"`
}
