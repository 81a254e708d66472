package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arkandhani/roomtalk/internal/domain/entity"
	"github.com/arkandhani/roomtalk/internal/domain/repository"
)

// memStore is a shared in-memory backing store for the repository fakes used
// across the service tests. It mirrors the relational semantics that matter:
// unique usernames/emails, topic upsert, participant sets, and cascade
// deletion of a room's messages.
type memStore struct {
	mu  sync.Mutex
	seq int

	users        map[string]*entity.User
	profiles     map[string]*entity.Profile // keyed by user id
	topics       []entity.Topic
	rooms        map[string]*entity.Room
	roomOrder    []string
	participants map[string]map[string]bool
	messages     []*entity.Message
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[string]*entity.User),
		profiles:     make(map[string]*entity.Profile),
		rooms:        make(map[string]*entity.Room),
		participants: make(map[string]map[string]bool),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) now() time.Time {
	// Monotonic-ish timestamps so newest-first ordering is deterministic.
	return time.Unix(int64(1700000000+s.seq), 0)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ---- users ----

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.ID = r.s.nextID("user")
	u.Username = strings.ToLower(u.Username)
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == strings.ToLower(username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.Username = strings.ToLower(u.Username)
	u.UpdatedAt = r.s.now()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

// ---- profiles ----

type memProfiles struct{ s *memStore }

func (r *memProfiles) Create(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.nextID("profile")
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.s.profiles[p.UserID] = &cp
	return nil
}

func (r *memProfiles) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfiles) Update(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for uid, existing := range r.s.profiles {
		if existing.ID == p.ID {
			p.UpdatedAt = r.s.now()
			cp := *p
			r.s.profiles[uid] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

// ---- topics ----

type memTopics struct{ s *memStore }

func (r *memTopics) Upsert(_ context.Context, name string) (*entity.Topic, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.topics {
		if r.s.topics[i].Name == name {
			cp := r.s.topics[i]
			return &cp, nil
		}
	}
	t := entity.Topic{ID: r.s.nextID("topic"), Name: name, CreatedAt: r.s.now()}
	r.s.topics = append(r.s.topics, t)
	cp := t
	return &cp, nil
}

func (r *memTopics) List(_ context.Context, query string, limit int) ([]entity.Topic, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Topic, 0)
	for _, t := range r.s.topics {
		if containsFold(t.Name, query) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- rooms ----

type memRooms struct{ s *memStore }

func (r *memRooms) Create(_ context.Context, room *entity.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room.ID = r.s.nextID("room")
	room.CreatedAt = r.s.now()
	room.UpdatedAt = room.CreatedAt
	if host, ok := r.s.users[room.HostID]; ok {
		room.HostUsername = host.Username
	}
	cp := *room
	r.s.rooms[room.ID] = &cp
	r.s.roomOrder = append(r.s.roomOrder, room.ID)
	return nil
}

func (r *memRooms) GetByID(_ context.Context, id string) (*entity.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (r *memRooms) Update(_ context.Context, room *entity.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[room.ID]; !ok {
		return repository.ErrNotFound
	}
	room.UpdatedAt = r.s.now()
	cp := *room
	r.s.rooms[room.ID] = &cp
	return nil
}

func (r *memRooms) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.rooms, id)
	delete(r.s.participants, id)
	kept := r.s.messages[:0]
	for _, m := range r.s.messages {
		if m.RoomID != id {
			kept = append(kept, m)
		}
	}
	r.s.messages = kept
	for i, rid := range r.s.roomOrder {
		if rid == id {
			r.s.roomOrder = append(r.s.roomOrder[:i], r.s.roomOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memRooms) Search(_ context.Context, query string) ([]entity.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Room, 0)
	for i := len(r.s.roomOrder) - 1; i >= 0; i-- {
		room := r.s.rooms[r.s.roomOrder[i]]
		if containsFold(room.TopicName, query) ||
			containsFold(room.Name, query) ||
			containsFold(room.Description, query) {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (r *memRooms) ListByHost(_ context.Context, hostID string) ([]entity.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Room, 0)
	for i := len(r.s.roomOrder) - 1; i >= 0; i-- {
		room := r.s.rooms[r.s.roomOrder[i]]
		if room.HostID == hostID {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (r *memRooms) Participants(_ context.Context, roomID string) ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.User, 0)
	for uid := range r.s.participants[roomID] {
		if u, ok := r.s.users[uid]; ok {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *memRooms) AddParticipant(_ context.Context, roomID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.participants[roomID] == nil {
		r.s.participants[roomID] = make(map[string]bool)
	}
	r.s.participants[roomID][userID] = true
	return nil
}

// ---- messages ----

type memMessages struct{ s *memStore }

func (r *memMessages) Create(_ context.Context, m *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.nextID("msg")
	m.CreatedAt = r.s.now()
	if u, ok := r.s.users[m.UserID]; ok {
		m.Username = u.Username
	}
	if room, ok := r.s.rooms[m.RoomID]; ok {
		m.RoomName = room.Name
	}
	cp := *m
	r.s.messages = append(r.s.messages, &cp)
	return nil
}

func (r *memMessages) GetByID(_ context.Context, id string) (*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memMessages) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, m := range r.s.messages {
		if m.ID == id {
			r.s.messages = append(r.s.messages[:i], r.s.messages[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memMessages) ListByRoom(_ context.Context, roomID string) ([]entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Message, 0)
	for _, m := range r.s.messages {
		if m.RoomID == roomID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMessages) ListByUser(_ context.Context, userID string) ([]entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Message, 0)
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		if r.s.messages[i].UserID == userID {
			out = append(out, *r.s.messages[i])
		}
	}
	return out, nil
}

func (r *memMessages) ListByTopicQuery(_ context.Context, query string) ([]entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Message, 0)
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		m := r.s.messages[i]
		room, ok := r.s.rooms[m.RoomID]
		if ok && containsFold(room.TopicName, query) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMessages) ListAll(_ context.Context) ([]entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Message, 0, len(r.s.messages))
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		out = append(out, *r.s.messages[i])
	}
	return out, nil
}

var (
	_ repository.UserRepository    = (*memUsers)(nil)
	_ repository.ProfileRepository = (*memProfiles)(nil)
	_ repository.TopicRepository   = (*memTopics)(nil)
	_ repository.RoomRepository    = (*memRooms)(nil)
	_ repository.MessageRepository = (*memMessages)(nil)
)
