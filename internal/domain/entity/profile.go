package entity

import (
	"time"
)

// Profile extends a User with presentation data. Exactly one profile exists
// per user; it is created together with the account at registration.
type Profile struct {
	ID        string
	UserID    string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
