package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Usernames are normalized to lowercase before persisting; Password holds
// a bcrypt hash, never the plain credential.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
