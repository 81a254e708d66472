package repository

import (
	"context"
	"errors"

	"github.com/arkandhani/roomtalk/internal/domain/entity"
)

// ErrNotFound is returned by every repository when an identifier does not
// resolve to a row.
var ErrNotFound = errors.New("not found")

// UserRepository defines user-account persistence operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}

// ProfileRepository persists the one-to-one profile extension of a user.
// Lookups for a user without a profile row return the repository's not-found
// error; profiles are never created implicitly on read.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	Update(ctx context.Context, p *entity.Profile) error
}

// TopicRepository persists topic tags. Upsert is the race-safe form of
// get-or-create: a unique constraint on name plus ON CONFLICT resolution, so
// two concurrent callers with the same name both observe the same row.
type TopicRepository interface {
	Upsert(ctx context.Context, name string) (*entity.Topic, error)
	// List returns topics whose name contains query (case-insensitive),
	// newest first. Empty query matches everything; limit <= 0 means no cap.
	List(ctx context.Context, query string, limit int) ([]entity.Topic, error)
}

// RoomRepository persists rooms and their participant sets.
type RoomRepository interface {
	Create(ctx context.Context, r *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	Update(ctx context.Context, r *entity.Room) error
	// Delete removes the room; messages and participant rows cascade.
	Delete(ctx context.Context, id string) error
	// Search returns rooms whose topic name, room name, or description
	// contains query case-insensitively, newest first. Empty query matches
	// all rooms.
	Search(ctx context.Context, query string) ([]entity.Room, error)
	ListByHost(ctx context.Context, hostID string) ([]entity.Room, error)
	Participants(ctx context.Context, roomID string) ([]entity.User, error)
	// AddParticipant is idempotent; adding an existing participant is a no-op.
	AddParticipant(ctx context.Context, roomID, userID string) error
}

// MessageRepository persists room messages.
type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	Delete(ctx context.Context, id string) error
	// ListByRoom returns a room's messages oldest first (conversation order).
	ListByRoom(ctx context.Context, roomID string) ([]entity.Message, error)
	// ListByUser returns a user's messages newest first.
	ListByUser(ctx context.Context, userID string) ([]entity.Message, error)
	// ListByTopicQuery returns messages whose room topic name contains query,
	// newest first.
	ListByTopicQuery(ctx context.Context, query string) ([]entity.Message, error)
	// ListAll returns every message newest first (activity feed).
	ListAll(ctx context.Context) ([]entity.Message, error)
}
