package user

import "errors"

// ErrNotFound is returned by repositories when no record matches the requested ID.
var ErrNotFound = errors.New("user not found")

// User represents a user entity in the system.
type User struct {
	ID    string `json:"id"`    // ID is a server-generated UUIDv4, immutable once assigned
	Name  string `json:"name"`  // Name is the free-text name of the user
	Email string `json:"email"` // Email is the email address of the user (not unique)
}
