package entity

import (
	"time"
)

// Room is a single discussion unit: one host, one topic, many participants.
// TopicName and HostUsername are join projections filled by read queries;
// they are not written back.
type Room struct {
	ID           string
	Name         string
	Description  string
	HostID       string
	TopicID      string
	TopicName    string
	HostUsername string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnerID identifies the user allowed to mutate or delete the room.
func (r *Room) OwnerID() string { return r.HostID }
