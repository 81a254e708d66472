package entity

import (
	"time"
)

// Topic is a named tag applied to rooms. Topics are created on demand the
// first time a room references the name and are never deleted.
type Topic struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
