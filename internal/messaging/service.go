// Package messaging implements the private inbox: resolving the single
// conversation between two users, listing a user's conversations by recent
// activity, loading threads and appending messages. Every operation takes
// the caller's user id explicitly.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/islmaice/connect/internal/clock"
	"github.com/islmaice/connect/internal/logger"
	"github.com/islmaice/connect/internal/metrics"
	"github.com/islmaice/connect/internal/models"
	"github.com/islmaice/connect/internal/store"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound means the conversation or target user does not exist.
	ErrNotFound = errors.New("messaging: not found")
	// ErrNotParticipant means the caller is not part of the conversation.
	ErrNotParticipant = errors.New("messaging: not a participant")
	// ErrSelfConversation means the caller tried to message themself.
	ErrSelfConversation = errors.New("messaging: cannot open a conversation with yourself")
	// ErrEmptyBody means the submitted body was blank after trimming.
	ErrEmptyBody = errors.New("messaging: empty message body")
)

type Service struct {
	store store.Store
	clock clock.Clock
	log   zerolog.Logger
}

func NewService(s store.Store, c clock.Clock) *Service {
	return &Service{store: s, clock: c, log: logger.WithComponent("messaging")}
}

// Inbox lists the conversations userID takes part in, most recent activity
// first.
func (s *Service) Inbox(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	summaries, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.ConversationSummary{}
	}
	return summaries, nil
}

// UnreadCount is the number of messages sent to userID that are unread.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

// Open resolves the conversation between requesterID and targetID, creating
// it on first contact.
func (s *Service) Open(ctx context.Context, requesterID, targetID int64) (*models.Conversation, error) {
	if _, err := s.store.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", targetID, ErrNotFound)
		}
		return nil, err
	}
	if targetID == requesterID {
		return nil, ErrSelfConversation
	}

	conv, created, err := s.store.OpenConversation(ctx, requesterID, targetID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	outcome := "existing"
	if created {
		outcome = "created"
		s.log.Info().
			Int64("conversation_id", conv.ID).
			Int64("user_id", requesterID).
			Int64("target_id", targetID).
			Msg("conversation created")
	}
	metrics.ConversationsOpened.WithLabelValues(outcome).Inc()
	return conv, nil
}

// Thread loads a conversation for viewerID and marks every message the
// other participant sent as read.
func (s *Service) Thread(ctx context.Context, viewerID, conversationID int64) (*models.Thread, error) {
	conv, err := s.authorize(ctx, viewerID, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.markRead(ctx, conv.ID, viewerID); err != nil {
		return nil, err
	}

	participants, err := s.store.GetConversationParticipants(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	messages, err := s.store.GetConversationMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return &models.Thread{Conversation: *conv, Participants: participants, Messages: messages}, nil
}

// Send appends a message from senderID. The thread counts as viewed, so
// incoming messages are marked read first. A body that is blank after
// trimming is dropped with ErrEmptyBody.
func (s *Service) Send(ctx context.Context, senderID, conversationID int64, body string) (*models.Message, error) {
	conv, err := s.authorize(ctx, senderID, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.markRead(ctx, conv.ID, senderID); err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		metrics.MessagesDiscarded.Inc()
		return nil, ErrEmptyBody
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()
	return msg, nil
}

func (s *Service) authorize(ctx context.Context, userID, conversationID int64) (*models.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("conversation %d: %w", conversationID, ErrNotFound)
		}
		return nil, err
	}

	ok, err := s.store.IsParticipant(ctx, conv.ID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Warn().
			Int64("conversation_id", conv.ID).
			Int64("user_id", userID).
			Msg("non-participant access")
		return nil, ErrNotParticipant
	}
	return conv, nil
}

func (s *Service) markRead(ctx context.Context, conversationID, readerID int64) error {
	n, err := s.store.MarkRead(ctx, conversationID, readerID)
	if err != nil {
		return err
	}
	metrics.MessagesMarkedRead.Add(float64(n))
	return nil
}
