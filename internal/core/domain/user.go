package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserStatus represents the lifecycle state of an account. Accounts are never
// physically removed; delete flips the status to "deleted".
type UserStatus string

const (
	StatusActive  UserStatus = "active"
	StatusDeleted UserStatus = "deleted"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailExists = errors.New("email already exists")
var ErrInvalidUserID = errors.New("malformed user id")
var ErrInvalidRole = errors.New("invalid role")

// ValidRole reports whether role is a member of the closed role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User models an account. PasswordHash never leaves the process: the JSON
// shape of this struct is the wire shape for every response containing a user.
type User struct {
	ID           string     `json:"id"`
	Firstname    string     `json:"firstname"`
	Lastname     string     `json:"lastname"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
