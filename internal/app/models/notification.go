package models

import "time"

// Notification is a message addressed to a single user.
type Notification struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	UserID    int64     `json:"userId" db:"user_id" example:"1"`
	Title     string    `json:"title" db:"title" example:"Registration opens"`
	Message   string    `json:"message" db:"message" example:"Course registration opens Monday."`
	Category  *string   `json:"category" db:"category" example:"academic"`
	Type      *string   `json:"type" db:"type" example:"info"`
	Priority  *string   `json:"priority" db:"priority" example:"high"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
