package models

import "time"

type Feedback struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"` // 1..5
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Advertisement is a storefront carousel slide.
type Advertisement struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url,omitempty"`
	IsActive bool   `json:"is_active"`
	Position int    `json:"position"`
}
