package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arkandhani/roomtalk/internal/application"
	"github.com/arkandhani/roomtalk/internal/domain/entity"
	"github.com/arkandhani/roomtalk/internal/domain/repository"
	"github.com/arkandhani/roomtalk/pkg/helpers"
	"github.com/arkandhani/roomtalk/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// stubStore backs the repository fakes for handler tests. Handler tests are
// single-goroutine, so there is no locking.
type stubStore struct {
	seq          int
	users        []*entity.User
	profiles     []*entity.Profile
	topics       []*entity.Topic
	rooms        []*entity.Room
	participants map[string]map[string]bool
	messages     []*entity.Message
}

func newStubStore() *stubStore {
	return &stubStore{participants: map[string]map[string]bool{}}
}

func (s *stubStore) id(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type stubUsers struct{ s *stubStore }

func (r *stubUsers) Create(_ context.Context, u *entity.User) error {
	u.ID = r.s.id("user")
	u.Username = strings.ToLower(u.Username)
	r.s.users = append(r.s.users, u)
	return nil
}

func (r *stubUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Username == strings.ToLower(username) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUsers) Update(_ context.Context, u *entity.User) error {
	for i, ex := range r.s.users {
		if ex.ID == u.ID {
			r.s.users[i] = u
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubProfiles struct{ s *stubStore }

func (r *stubProfiles) Create(_ context.Context, p *entity.Profile) error {
	p.ID = r.s.id("profile")
	r.s.profiles = append(r.s.profiles, p)
	return nil
}

func (r *stubProfiles) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	for _, p := range r.s.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubProfiles) Update(_ context.Context, p *entity.Profile) error {
	for i, ex := range r.s.profiles {
		if ex.ID == p.ID {
			r.s.profiles[i] = p
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubTopics struct{ s *stubStore }

func (r *stubTopics) Upsert(_ context.Context, name string) (*entity.Topic, error) {
	for _, t := range r.s.topics {
		if t.Name == name {
			return t, nil
		}
	}
	t := &entity.Topic{ID: r.s.id("topic"), Name: name, CreatedAt: time.Now()}
	r.s.topics = append(r.s.topics, t)
	return t, nil
}

func (r *stubTopics) List(_ context.Context, query string, limit int) ([]entity.Topic, error) {
	out := make([]entity.Topic, 0)
	for i := len(r.s.topics) - 1; i >= 0; i-- {
		t := r.s.topics[i]
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(query)) {
			out = append(out, *t)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubRooms struct{ s *stubStore }

func (r *stubRooms) Create(_ context.Context, room *entity.Room) error {
	room.ID = r.s.id("room")
	r.s.rooms = append(r.s.rooms, room)
	return nil
}

func (r *stubRooms) GetByID(_ context.Context, id string) (*entity.Room, error) {
	for _, room := range r.s.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubRooms) Update(_ context.Context, room *entity.Room) error {
	for i, ex := range r.s.rooms {
		if ex.ID == room.ID {
			r.s.rooms[i] = room
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubRooms) Delete(_ context.Context, id string) error {
	for i, room := range r.s.rooms {
		if room.ID == id {
			r.s.rooms = append(r.s.rooms[:i], r.s.rooms[i+1:]...)
			kept := r.s.messages[:0]
			for _, m := range r.s.messages {
				if m.RoomID != id {
					kept = append(kept, m)
				}
			}
			r.s.messages = kept
			delete(r.s.participants, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubRooms) Search(_ context.Context, query string) ([]entity.Room, error) {
	q := strings.ToLower(query)
	out := make([]entity.Room, 0)
	for i := len(r.s.rooms) - 1; i >= 0; i-- {
		room := r.s.rooms[i]
		if strings.Contains(strings.ToLower(room.Name), q) ||
			strings.Contains(strings.ToLower(room.TopicName), q) ||
			strings.Contains(strings.ToLower(room.Description), q) {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (r *stubRooms) ListByHost(_ context.Context, hostID string) ([]entity.Room, error) {
	out := make([]entity.Room, 0)
	for i := len(r.s.rooms) - 1; i >= 0; i-- {
		if r.s.rooms[i].HostID == hostID {
			out = append(out, *r.s.rooms[i])
		}
	}
	return out, nil
}

func (r *stubRooms) Participants(_ context.Context, roomID string) ([]entity.User, error) {
	out := make([]entity.User, 0)
	for uid := range r.s.participants[roomID] {
		for _, u := range r.s.users {
			if u.ID == uid {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (r *stubRooms) AddParticipant(_ context.Context, roomID, userID string) error {
	if r.s.participants[roomID] == nil {
		r.s.participants[roomID] = map[string]bool{}
	}
	r.s.participants[roomID][userID] = true
	return nil
}

type stubMessages struct{ s *stubStore }

func (r *stubMessages) Create(_ context.Context, m *entity.Message) error {
	m.ID = r.s.id("msg")
	r.s.messages = append(r.s.messages, m)
	return nil
}

func (r *stubMessages) GetByID(_ context.Context, id string) (*entity.Message, error) {
	for _, m := range r.s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubMessages) Delete(_ context.Context, id string) error {
	for i, m := range r.s.messages {
		if m.ID == id {
			r.s.messages = append(r.s.messages[:i], r.s.messages[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubMessages) ListByRoom(_ context.Context, roomID string) ([]entity.Message, error) {
	out := make([]entity.Message, 0)
	for _, m := range r.s.messages {
		if m.RoomID == roomID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMessages) ListByUser(_ context.Context, userID string) ([]entity.Message, error) {
	out := make([]entity.Message, 0)
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		if r.s.messages[i].UserID == userID {
			out = append(out, *r.s.messages[i])
		}
	}
	return out, nil
}

func (r *stubMessages) ListByTopicQuery(_ context.Context, query string) ([]entity.Message, error) {
	q := strings.ToLower(query)
	out := make([]entity.Message, 0)
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		m := r.s.messages[i]
		for _, room := range r.s.rooms {
			if room.ID == m.RoomID && strings.Contains(strings.ToLower(room.TopicName), q) {
				out = append(out, *m)
			}
		}
	}
	return out, nil
}

func (r *stubMessages) ListAll(_ context.Context) ([]entity.Message, error) {
	out := make([]entity.Message, 0, len(r.s.messages))
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		out = append(out, *r.s.messages[i])
	}
	return out, nil
}

// testEnv wires the handlers onto real services backed by the stub store,
// with every optional dependency (Redis, ES, GCS, RabbitMQ) absent.
type testEnv struct {
	store *stubStore

	authSvc    *application.AuthService
	roomSvc    *application.RoomService
	profileSvc *application.ProfileService
	feedSvc    *application.FeedService

	auth  *AuthHandler
	rooms *RoomHandler
	users *UserHandler
	feed  *FeedHandler
}

func newTestEnv() *testEnv {
	s := newStubStore()
	users := &stubUsers{s}
	profiles := &stubProfiles{s}
	topics := &stubTopics{s}
	rooms := &stubRooms{s}
	messages := &stubMessages{s}

	jwt := helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)
	env := &testEnv{
		store:      s,
		authSvc:    application.NewAuthService(users, profiles, jwt, nil, nil, nil, "roomtalk", false),
		roomSvc:    application.NewRoomService(rooms, topics, messages, nil, nil, ""),
		profileSvc: application.NewProfileService(users, profiles, rooms, messages, topics, nil, nil, ""),
		feedSvc:    application.NewFeedService(topics, messages),
	}
	env.auth = NewAuthHandler(env.authSvc, nil, "", false)
	env.rooms = NewRoomHandler(env.roomSvc, nil)
	env.users = NewUserHandler(env.profileSvc, nil)
	env.feed = NewFeedHandler(env.feedSvc, nil)
	return env
}

// actAs substitutes the auth middleware: routes behind it behave as if the
// given user holds a valid session.
func actAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// router mirrors the real route table, with actAs standing in for the auth
// middleware. Auth gating itself is covered in the middleware package.
func (env *testEnv) router(actorID string) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")

	api.POST("/register", env.auth.Register)
	api.POST("/login", env.auth.Login)
	api.POST("/refresh", env.auth.Refresh)
	api.POST("/logout", env.auth.Logout)

	api.GET("/home", env.rooms.Home)
	api.GET("/rooms/:id", env.rooms.Get)
	api.GET("/users/:id", env.users.View)
	api.GET("/topics", env.feed.Topics)
	api.GET("/activity", env.feed.Activity)

	p := api.Group("", actAs(actorID))
	p.POST("/rooms", env.rooms.Create)
	p.PUT("/rooms/:id", env.rooms.Update)
	p.GET("/rooms/:id/delete", env.rooms.ConfirmDelete)
	p.DELETE("/rooms/:id", env.rooms.Delete)
	p.POST("/rooms/:id/messages", env.rooms.PostMessage)
	p.GET("/messages/:id/delete", env.rooms.ConfirmDeleteMessage)
	p.DELETE("/messages/:id", env.rooms.DeleteMessage)
	p.GET("/profile", env.users.GetSelf)
	p.PUT("/profile", env.users.UpdateSelf)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, w.Body.String())
	}
	return e
}

func registerUser(t *testing.T, env *testEnv, username, email string) *entity.User {
	t.Helper()
	u, _, err := env.authSvc.Register(context.Background(), application.RegisterInput{
		Username: username, Email: email, Password: "password123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func createRoom(t *testing.T, env *testEnv, hostID, name, topic string) *entity.Room {
	t.Helper()
	room, err := env.roomSvc.Create(context.Background(), hostID, application.RoomInput{Name: name, Topic: topic})
	if err != nil {
		t.Fatalf("create room %s: %v", name, err)
	}
	return room
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}
