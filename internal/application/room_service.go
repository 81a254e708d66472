package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/arkandhani/roomtalk/internal/domain/entity"
	"github.com/arkandhani/roomtalk/internal/domain/repository"
)

// RoomService owns room and message CRUD, search, and participation.
type RoomService struct {
	Rooms    repository.RoomRepository
	Topics   repository.TopicRepository
	Messages repository.MessageRepository
	Logger   *logrus.Logger

	// Optional secondary index; indexing is best-effort and skipped when nil.
	ES           *elasticsearch.Client
	ESRoomsIndex string
}

func NewRoomService(rooms repository.RoomRepository, topics repository.TopicRepository, messages repository.MessageRepository, logger *logrus.Logger, es *elasticsearch.Client, esRoomsIndex string) *RoomService {
	return &RoomService{
		Rooms:        rooms,
		Topics:       topics,
		Messages:     messages,
		Logger:       logger,
		ES:           es,
		ESRoomsIndex: esRoomsIndex,
	}
}

const homeTopicLimit = 5

// Home returns the combined home/search payload. An empty query matches
// everything.
func (s *RoomService) Home(ctx context.Context, query string) (*HomeView, error) {
	rooms, err := s.Rooms.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	topics, err := s.Topics.List(ctx, "", homeTopicLimit)
	if err != nil {
		return nil, err
	}
	messages, err := s.Messages.ListByTopicQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return &HomeView{
		Rooms:     rooms,
		Topics:    topics,
		RoomCount: len(rooms),
		Messages:  messages,
	}, nil
}

// Get loads a room with its conversation and participants.
func (s *RoomService) Get(ctx context.Context, roomID string) (*RoomView, error) {
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	messages, err := s.Messages.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	participants, err := s.Rooms.Participants(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &RoomView{Room: room, Messages: messages, Participants: participants}, nil
}

type RoomInput struct {
	Name        string
	Topic       string
	Description string
}

// Create makes a room hosted by actorID, creating the topic on demand.
func (s *RoomService) Create(ctx context.Context, actorID string, in RoomInput) (*entity.Room, error) {
	topic, err := s.Topics.Upsert(ctx, strings.TrimSpace(in.Topic))
	if err != nil {
		return nil, err
	}
	room := &entity.Room{
		Name:        in.Name,
		Description: in.Description,
		HostID:      actorID,
		TopicID:     topic.ID,
		TopicName:   topic.Name,
	}
	if err := s.Rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	s.indexRoom(ctx, room)
	return room, nil
}

// Update overwrites name, topic, and description. Only the host may update;
// anyone else gets ErrForbidden.
func (s *RoomService) Update(ctx context.Context, actorID, roomID string, in RoomInput) (*entity.Room, error) {
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := Authorize(actorID, room); err != nil {
		return nil, err
	}
	topic, err := s.Topics.Upsert(ctx, strings.TrimSpace(in.Topic))
	if err != nil {
		return nil, err
	}
	room.Name = in.Name
	room.Description = in.Description
	room.TopicID = topic.ID
	room.TopicName = topic.Name
	if err := s.Rooms.Update(ctx, room); err != nil {
		return nil, mapNotFound(err)
	}
	s.indexRoom(ctx, room)
	return room, nil
}

// ConfirmDeleteRoom is the first phase of room deletion: it resolves the
// target and verifies ownership without mutating anything, so the client can
// render a confirmation step.
func (s *RoomService) ConfirmDeleteRoom(ctx context.Context, actorID, roomID string) (*entity.Room, error) {
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := Authorize(actorID, room); err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom is the second phase: messages and participant rows cascade with
// the room.
func (s *RoomService) DeleteRoom(ctx context.Context, actorID, roomID string) error {
	room, err := s.ConfirmDeleteRoom(ctx, actorID, roomID)
	if err != nil {
		return err
	}
	if err := s.Rooms.Delete(ctx, room.ID); err != nil {
		return mapNotFound(err)
	}
	s.deleteRoomIndex(ctx, room.ID)
	return nil
}

// PostMessage creates a message in the room and adds the author to its
// participant set (idempotently), then returns the refreshed room view so the
// caller observes its own write.
func (s *RoomService) PostMessage(ctx context.Context, actorID, roomID, body string) (*RoomView, error) {
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	msg := &entity.Message{RoomID: room.ID, UserID: actorID, Body: body}
	if err := s.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.Rooms.AddParticipant(ctx, room.ID, actorID); err != nil {
		return nil, err
	}
	return s.Get(ctx, room.ID)
}

// ConfirmDeleteMessage resolves the message and verifies authorship for the
// confirmation step.
func (s *RoomService) ConfirmDeleteMessage(ctx context.Context, actorID, messageID string) (*entity.Message, error) {
	msg, err := s.Messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := Authorize(actorID, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// DeleteMessage removes a message; only its author may do so.
func (s *RoomService) DeleteMessage(ctx context.Context, actorID, messageID string) error {
	msg, err := s.ConfirmDeleteMessage(ctx, actorID, messageID)
	if err != nil {
		return err
	}
	return mapNotFound(s.Messages.Delete(ctx, msg.ID))
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *RoomService) indexRoom(ctx context.Context, room *entity.Room) {
	if s.ES == nil || s.ESRoomsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          room.ID,
		"name":        room.Name,
		"description": room.Description,
		"topic":       room.TopicName,
		"host_id":     room.HostID,
		"created_at":  room.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  room.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESRoomsIndex, DocumentID: room.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("room_id", room.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("room_id", room.ID).Warn("es index response error")
	}
}

func (s *RoomService) deleteRoomIndex(ctx context.Context, roomID string) {
	if s.ES == nil || s.ESRoomsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESRoomsIndex, DocumentID: roomID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if res, err := req.Do(c, s.ES); err == nil {
		_ = res.Body.Close()
	}
}

// SearchIndexed performs a multi_match query against the secondary room
// index. It returns an empty slice when the index is not configured.
func (s *RoomService) SearchIndexed(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESRoomsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "topic^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESRoomsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
