package application

import (
	"github.com/arkandhani/roomtalk/internal/domain/entity"
)

// HomeView is the combined payload of the home/search operation: rooms
// matching the query, the five newest topics, the match count, and messages
// belonging to matching-topic rooms.
type HomeView struct {
	Rooms     []entity.Room
	Topics    []entity.Topic
	RoomCount int
	Messages  []entity.Message
}

// RoomView is a room with its full conversation and participant set.
type RoomView struct {
	Room         *entity.Room
	Messages     []entity.Message
	Participants []entity.User
}

// UserView is the public profile page payload: the user, their profile, the
// rooms they host, their messages, and the global topic list.
type UserView struct {
	User     *entity.User
	Profile  *entity.Profile
	Rooms    []entity.Room
	Messages []entity.Message
	Topics   []entity.Topic
}
