package sqlstore

import (
	"context"
	"fmt"

	"github.com/islmaice/connect/internal/models"
)

func (s *SQLStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	query := s.rebind("INSERT INTO messages (conversation_id, sender_id, body, created_at, is_read) VALUES (?, ?, ?, ?, ?) RETURNING id")
	err := s.db.QueryRowContext(ctx, query, msg.ConversationID, msg.SenderID, msg.Body, toNanos(msg.CreatedAt), msg.IsRead).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("save message in conversation %d: %w", msg.ConversationID, err)
	}
	return nil
}

func (s *SQLStore) GetConversationMessages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	query := s.rebind(`
		SELECT m.id, m.conversation_id, m.sender_id, u.username, m.body, m.created_at, m.is_read
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.conversation_id = ?
		ORDER BY m.created_at ASC, m.id ASC
	`)
	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var (
			m       models.Message
			created int64
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderUsername, &m.Body, &created, &m.IsRead); err != nil {
			return nil, err
		}
		m.CreatedAt = fromNanos(created)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead flips is_read on every unread message in the conversation that
// readerID did not send, returning how many rows changed.
func (s *SQLStore) MarkRead(ctx context.Context, conversationID, readerID int64) (int64, error) {
	query := s.rebind("UPDATE messages SET is_read = ? WHERE conversation_id = ? AND sender_id <> ? AND is_read = ?")
	result, err := s.db.ExecContext(ctx, query, true, conversationID, readerID, false)
	if err != nil {
		return 0, fmt.Errorf("mark conversation %d read: %w", conversationID, err)
	}
	return result.RowsAffected()
}

// CountUnread counts messages addressed to userID, across all of the
// user's conversations, that are still unread.
func (s *SQLStore) CountUnread(ctx context.Context, userID int64) (int, error) {
	query := s.rebind(`
		SELECT COUNT(*)
		FROM messages m
		JOIN conversation_participants p ON p.conversation_id = m.conversation_id
		WHERE p.user_id = ? AND m.sender_id <> ? AND m.is_read = ?
	`)
	var n int
	err := s.db.QueryRowContext(ctx, query, userID, userID, false).Scan(&n)
	return n, err
}
