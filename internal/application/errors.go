package application

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmailTaken         = errors.New("email address already in use")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrProfileMissing     = errors.New("user profile does not exist")
)

// Owned is implemented by entities that have a single owning user
// (room host, message author).
type Owned interface {
	OwnerID() string
}

// Authorize is the one ownership predicate used by every mutating handler:
// the actor must be the owner of the resource, otherwise ErrForbidden.
func Authorize(actorID string, res Owned) error {
	if actorID == "" || actorID != res.OwnerID() {
		return ErrForbidden
	}
	return nil
}
