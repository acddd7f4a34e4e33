package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Name         string    `json:"name" db:"name" example:"Sample Student"`
	Email        string    `json:"email" db:"email" example:"student@example.com"`
	Role         RoleType  `json:"role" db:"role" example:"STUDENT"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
