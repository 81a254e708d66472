package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arkandhani/roomtalk/internal/domain/entity"
	"github.com/arkandhani/roomtalk/internal/domain/repository"
	"github.com/arkandhani/roomtalk/pkg/helpers"
)

// ProfileService owns the public user view and self-profile updates.
type ProfileService struct {
	Users    repository.UserRepository
	Profiles repository.ProfileRepository
	Rooms    repository.RoomRepository
	Messages repository.MessageRepository
	Topics   repository.TopicRepository
	Logger   *logrus.Logger

	GCS       *storage.Client
	GCSBucket string
}

func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository, rooms repository.RoomRepository, messages repository.MessageRepository, topics repository.TopicRepository, logger *logrus.Logger, gcs *storage.Client, gcsBucket string) *ProfileService {
	return &ProfileService{
		Users:     users,
		Profiles:  profiles,
		Rooms:     rooms,
		Messages:  messages,
		Topics:    topics,
		Logger:    logger,
		GCS:       gcs,
		GCSBucket: gcsBucket,
	}
}

// ViewUser loads the public profile page payload for any user id.
func (s *ProfileService) ViewUser(ctx context.Context, userID string) (*UserView, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	profile, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	rooms, err := s.Rooms.ListByHost(ctx, userID)
	if err != nil {
		return nil, err
	}
	messages, err := s.Messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	topics, err := s.Topics.List(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	return &UserView{User: u, Profile: profile, Rooms: rooms, Messages: messages, Topics: topics}, nil
}

// GetSelf returns the acting user and their profile. A user without a
// profile row is an error, not an auto-create.
func (s *ProfileService) GetSelf(ctx context.Context, userID string) (*entity.User, *entity.Profile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	profile, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrProfileMissing
		}
		return nil, nil, err
	}
	return u, profile, nil
}

// UpdateSelfInput carries the two sub-forms of the self-update flow: account
// fields and an optional replacement avatar image.
type UpdateSelfInput struct {
	Username string
	Email    string

	Image            io.Reader
	ImageFilename    string
	ImageContentType string
}

// UpdateSelf mutates the acting user's own account and profile. Both
// sub-forms are checked before either is written, so a failure leaves no
// partial state.
func (s *ProfileService) UpdateSelf(ctx context.Context, userID string, in UpdateSelfInput) (*entity.User, *entity.Profile, error) {
	u, profile, err := s.GetSelf(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username != u.Username {
		if other, err := s.Users.GetByUsername(ctx, username); err == nil && other.ID != userID {
			return nil, nil, ErrUsernameTaken
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, err
		}
	}
	if in.Email != u.Email {
		if other, err := s.Users.GetByEmail(ctx, in.Email); err == nil && other.ID != userID {
			return nil, nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, err
		}
	}

	avatarURL := profile.AvatarURL
	if in.Image != nil {
		avatarURL, err = s.uploadAvatar(ctx, userID, in.Image, in.ImageFilename, in.ImageContentType)
		if err != nil {
			return nil, nil, err
		}
	}

	// The two writes below are not wrapped in a transaction: validation and
	// the avatar upload have already succeeded, so only an infrastructure
	// failure can strand the user row ahead of the profile row.
	u.Username = username
	u.Email = in.Email
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, nil, mapNotFound(err)
	}
	profile.AvatarURL = avatarURL
	if err := s.Profiles.Update(ctx, profile); err != nil {
		return nil, nil, mapNotFound(err)
	}
	return u, profile, nil
}

func (s *ProfileService) uploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("avatar storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}
