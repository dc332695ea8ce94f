package model

import "time"

const (
	RoleUser     = "user"
	RoleOfficial = "official"
	RoleAdmin    = "admin"
)

// User represents an account in the system
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionUser is the identity record the client caches alongside the bearer
// token. ID and role come from the token claims, name and email from the
// login response body. Field names are canonical lowercase; the client never
// guesses alternate spellings.
type SessionUser struct {
	ID    int64  `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
