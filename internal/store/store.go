package store

import (
	"context"
	"errors"
	"time"

	"github.com/islmaice/connect/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("store: already exists")

type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	CreateAccount(ctx context.Context, user *models.User, profile *models.Profile) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// Conversation operations
	OpenConversation(ctx context.Context, a, b int64, now time.Time) (conv *models.Conversation, created bool, err error)
	GetConversation(ctx context.Context, id int64) (*models.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)
	GetConversationParticipants(ctx context.Context, conversationID int64) ([]models.User, error)
	ListConversations(ctx context.Context, userID int64) ([]models.ConversationSummary, error)

	// Message operations
	SaveMessage(ctx context.Context, msg *models.Message) error
	GetConversationMessages(ctx context.Context, conversationID int64) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int, error)

	// Profile operations
	SaveProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	CountProfiles(ctx context.Context, filter models.ProfileFilter) (int, error)
	ListProfiles(ctx context.Context, filter models.ProfileFilter, limit, offset int) ([]models.Profile, error)

	Ping(ctx context.Context) error
	Close() error
}
