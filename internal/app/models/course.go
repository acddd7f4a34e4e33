package models

// Course defines the course model based on the 'courses' table
type Course struct {
	ID      int64  `json:"id" db:"id" example:"1"`
	Code    string `json:"code" db:"code" example:"CSC 301"`
	Title   string `json:"title" db:"title" example:"Database Systems"`
	Credits int    `json:"credits" db:"credits" example:"3"`
}
