package models

// Term is an academic period, e.g. "2025 Fall".
type Term struct {
	ID   int64  `json:"id" db:"id" example:"1"`
	Name string `json:"name" db:"name" example:"2025 Fall"`
}
