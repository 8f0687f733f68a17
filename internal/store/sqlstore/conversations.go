package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/islmaice/connect/internal/models"
	"github.com/islmaice/connect/internal/store"
)

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// OpenConversation returns the conversation between a and b, creating it
// and both participant rows in one transaction when it does not exist yet.
// The unique (user_low_id, user_high_id) pair makes a concurrent opener's
// insert a no-op, after which the winner's row is read back.
func (s *SQLStore) OpenConversation(ctx context.Context, a, b int64, now time.Time) (*models.Conversation, bool, error) {
	if a == b {
		return nil, false, fmt.Errorf("open conversation: user %d cannot converse with itself", a)
	}
	low, high := models.NormalizePair(a, b)

	var (
		conv    *models.Conversation
		created bool
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.findConversation(ctx, tx, low, high)
		if err == nil {
			conv = existing
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		var id int64
		insert := s.rebind(`
			INSERT INTO conversations (user_low_id, user_high_id, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT (user_low_id, user_high_id) DO NOTHING
			RETURNING id
		`)
		err = tx.QueryRowContext(ctx, insert, low, high, toNanos(now)).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			conv, err = s.findConversation(ctx, tx, low, high)
			return err
		}
		if err != nil {
			return fmt.Errorf("insert conversation: %w", err)
		}

		participant := s.rebind("INSERT INTO conversation_participants (conversation_id, user_id) VALUES (?, ?)")
		for _, userID := range []int64{low, high} {
			if _, err := tx.ExecContext(ctx, participant, id, userID); err != nil {
				return fmt.Errorf("add participant %d: %w", userID, err)
			}
		}

		conv = &models.Conversation{ID: id, UserLowID: low, UserHighID: high, CreatedAt: fromNanos(toNanos(now))}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return conv, created, nil
}

func (s *SQLStore) findConversation(ctx context.Context, q queryer, low, high int64) (*models.Conversation, error) {
	query := s.rebind("SELECT id, user_low_id, user_high_id, created_at FROM conversations WHERE user_low_id = ? AND user_high_id = ?")
	return scanConversation(q.QueryRowContext(ctx, query, low, high))
}

func (s *SQLStore) GetConversation(ctx context.Context, id int64) (*models.Conversation, error) {
	query := s.rebind("SELECT id, user_low_id, user_high_id, created_at FROM conversations WHERE id = ?")
	return scanConversation(s.db.QueryRowContext(ctx, query, id))
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var (
		conv    models.Conversation
		created int64
	)
	if err := row.Scan(&conv.ID, &conv.UserLowID, &conv.UserHighID, &created); err != nil {
		return nil, notFound(err)
	}
	conv.CreatedAt = fromNanos(created)
	return &conv, nil
}

func (s *SQLStore) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM conversation_participants WHERE conversation_id = ? AND user_id = ?)")
	err := s.db.QueryRowContext(ctx, query, conversationID, userID).Scan(&exists)
	return exists, err
}

func (s *SQLStore) GetConversationParticipants(ctx context.Context, conversationID int64) ([]models.User, error) {
	query := s.rebind(`
		SELECT u.id, u.username, u.created_at
		FROM users u
		JOIN conversation_participants p ON u.id = p.user_id
		WHERE p.conversation_id = ?
		ORDER BY u.id
	`)
	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			u       models.User
			created int64
		)
		if err := rows.Scan(&u.ID, &u.Username, &created); err != nil {
			return nil, err
		}
		u.CreatedAt = fromNanos(created)
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListConversations returns userID's conversations, most recent activity
// first. Activity is the newest message, or the creation time for a
// conversation without messages; creation time then id break ties.
func (s *SQLStore) ListConversations(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	query := s.rebind(`
		SELECT c.id, c.user_low_id, c.user_high_id, c.created_at,
			ul.username, uh.username,
			MAX(m.created_at),
			COALESCE(SUM(CASE WHEN m.sender_id <> ? AND m.is_read = ? THEN 1 ELSE 0 END), 0),
			COALESCE((
				SELECT lm.body FROM messages lm
				WHERE lm.conversation_id = c.id
				ORDER BY lm.created_at DESC, lm.id DESC
				LIMIT 1
			), '')
		FROM conversations c
		JOIN conversation_participants p ON p.conversation_id = c.id
		JOIN users ul ON ul.id = c.user_low_id
		JOIN users uh ON uh.id = c.user_high_id
		LEFT JOIN messages m ON m.conversation_id = c.id
		WHERE p.user_id = ?
		GROUP BY c.id, c.user_low_id, c.user_high_id, c.created_at, ul.username, uh.username
		ORDER BY COALESCE(MAX(m.created_at), c.created_at) DESC, c.created_at DESC, c.id DESC
	`)
	rows, err := s.db.QueryContext(ctx, query, userID, false, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations for user %d: %w", userID, err)
	}
	defer rows.Close()

	var summaries []models.ConversationSummary
	for rows.Next() {
		var (
			sum         models.ConversationSummary
			created     int64
			lowName     string
			highName    string
			lastMessage sql.NullInt64
		)
		if err := rows.Scan(
			&sum.ID, &sum.UserLowID, &sum.UserHighID, &created,
			&lowName, &highName,
			&lastMessage, &sum.UnreadCount, &sum.LastMessage,
		); err != nil {
			return nil, err
		}
		sum.CreatedAt = fromNanos(created)
		sum.LastActivityAt = sum.CreatedAt
		if lastMessage.Valid {
			at := fromNanos(lastMessage.Int64)
			sum.LastMessageAt = &at
			sum.LastActivityAt = at
		}

		sum.Counterpart = models.User{ID: sum.Conversation.Counterpart(userID), Username: lowName}
		if sum.UserLowID == userID {
			sum.Counterpart.Username = highName
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
