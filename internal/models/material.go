package models

import "time"

type Material struct {
	ID          int       `json:"id"`
	Level       string    `json:"level"`
	CourseCode  string    `json:"course_code"`
	CourseTitle string    `json:"course_title"`
	Description string    `json:"description"`
	PdfURL      string    `json:"pdf_url"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaterialFilter narrows List queries. Approved is a pointer so the
// default (nil) can mean "approved only" while still allowing an
// explicit approved=false query for the admin review flow.
type MaterialFilter struct {
	Level      string
	CourseCode string
	Approved   *bool
}
