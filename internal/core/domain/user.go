package domain

import (
	"errors"
	"time"
)

const RoleAdmin = "admin"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAdminNotFound = errors.New("admin not found")

// Admin models an account allowed to log into the editor.
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the verified caller attached to a request by the auth gate.
type Identity struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
