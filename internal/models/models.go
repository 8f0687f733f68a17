package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is a two-party thread. The participant ids are stored in
// normalized order so that each unordered pair maps to a single row.
type Conversation struct {
	ID         int64     `json:"id"`
	UserLowID  int64     `json:"user_low_id"`
	UserHighID int64     `json:"user_high_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NormalizePair orders two user ids the way conversations store them.
func NormalizePair(a, b int64) (low, high int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Has reports whether userID is one of the two participants.
func (c *Conversation) Has(userID int64) bool {
	return c.UserLowID == userID || c.UserHighID == userID
}

// Counterpart returns the participant that is not userID.
func (c *Conversation) Counterpart(userID int64) int64 {
	if c.UserLowID == userID {
		return c.UserHighID
	}
	return c.UserLowID
}

// ConversationSummary is one inbox row as seen by a particular user.
type ConversationSummary struct {
	Conversation
	Counterpart    User       `json:"counterpart"`
	LastMessageAt  *time.Time `json:"last_message_at,omitempty"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	LastMessage    string     `json:"last_message,omitempty"`
	UnreadCount    int        `json:"unread_count"`
}

type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	SenderUsername string    `json:"sender_username,omitempty"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
	IsRead         bool      `json:"is_read"`
}

// Thread is a conversation with its participants and full history,
// oldest message first.
type Thread struct {
	Conversation Conversation `json:"conversation"`
	Participants []User       `json:"participants"`
	Messages     []Message    `json:"messages"`
}
