package models

import "time"

type User struct {
	ID        string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      *string   `json:"role"` // nil while access is pending approval
	CreatedAt time.Time `json:"created_at"`
}

// Session is a live staff login. Token is the opaque cookie value.
type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}
