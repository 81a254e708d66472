package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestTopicsEndpoint(t *testing.T) {
	env := newTestEnv()
	host := registerUser(t, env, "host", "host@example.com")
	createRoom(t, env, host.ID, "a", "golang")
	createRoom(t, env, host.ID, "b", "go-gamedev")
	createRoom(t, env, host.ID, "c", "cooking")

	w := doJSON(t, env.router(""), http.MethodGet, "/api/topics?q=go", nil)
	mustStatus(t, w, http.StatusOK)

	e := decodeEnvelope(t, w)
	var topics []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(e.Data, &topics); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("topics = %d, want 2", len(topics))
	}
}

func TestActivityEndpoint(t *testing.T) {
	env := newTestEnv()
	host := registerUser(t, env, "host", "host@example.com")
	room := createRoom(t, env, host.ID, "room", "golang")
	ctx := context.Background()

	for _, body := range []string{"first", "second"} {
		if _, err := env.roomSvc.PostMessage(ctx, host.ID, room.ID, body); err != nil {
			t.Fatalf("post %q: %v", body, err)
		}
	}

	w := doJSON(t, env.router(""), http.MethodGet, "/api/activity", nil)
	mustStatus(t, w, http.StatusOK)

	e := decodeEnvelope(t, w)
	var msgs []struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(e.Data, &msgs); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Body != "second" {
		t.Errorf("activity = %+v, want both messages newest first", msgs)
	}
}
