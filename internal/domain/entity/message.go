package entity

import (
	"time"
)

// Message is one post authored by a user inside a room. Username and
// RoomName are join projections for feed views.
type Message struct {
	ID        string
	RoomID    string
	UserID    string
	Body      string
	Username  string
	RoomName  string
	CreatedAt time.Time
}

// OwnerID identifies the author, the only user allowed to delete the message.
func (m *Message) OwnerID() string { return m.UserID }
