package application

import (
	"context"

	"github.com/arkandhani/roomtalk/internal/domain/entity"
	"github.com/arkandhani/roomtalk/internal/domain/repository"
)

// FeedService owns the read-only aggregation views: the topic browser and
// the global activity feed.
type FeedService struct {
	Topics   repository.TopicRepository
	Messages repository.MessageRepository
}

func NewFeedService(topics repository.TopicRepository, messages repository.MessageRepository) *FeedService {
	return &FeedService{Topics: topics, Messages: messages}
}

// ListTopics filters topics by case-insensitive substring of the name.
// An empty query returns all topics.
func (s *FeedService) ListTopics(ctx context.Context, query string) ([]entity.Topic, error) {
	return s.Topics.List(ctx, query, 0)
}

// Activity returns every message, newest first.
func (s *FeedService) Activity(ctx context.Context) ([]entity.Message, error) {
	return s.Messages.ListAll(ctx)
}
