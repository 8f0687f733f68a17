package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/islmaice/connect/internal/apperrors"
	"github.com/islmaice/connect/internal/logger"
	"github.com/islmaice/connect/internal/messaging"
)

const inboxPath = "/messages"

func threadPath(conversationID int64) string {
	return fmt.Sprintf("/messages/thread/%d", conversationID)
}

type MessageHandler struct {
	Messages *messaging.Service
}

type SendMessageRequest struct {
	Body string `json:"body"`
}

func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	conversations, err := h.Messages.Inbox(r.Context(), userID)
	if err != nil {
		serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

func (h *MessageHandler) Unread(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	n, err := h.Messages.UnreadCount(r.Context(), userID)
	if err != nil {
		serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": n})
}

// Start sends the caller to the thread they share with the target user,
// creating it on first contact.
func (h *MessageHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(r, "userID")
	if !ok {
		apperrors.Write(w, apperrors.NotFound("User not found"))
		return
	}

	conv, err := h.Messages.Open(r.Context(), userID, targetID)
	switch {
	case errors.Is(err, messaging.ErrNotFound):
		apperrors.Write(w, apperrors.NotFound("User not found"))
	case errors.Is(err, messaging.ErrSelfConversation):
		http.Redirect(w, r, inboxPath, http.StatusFound)
	case err != nil:
		serverError(w, r, err)
	default:
		http.Redirect(w, r, threadPath(conv.ID), http.StatusFound)
	}
}

func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	conversationID, ok := pathID(r, "id")
	if !ok {
		apperrors.Write(w, apperrors.NotFound("Conversation not found"))
		return
	}
	h.renderThread(w, r, userID, conversationID)
}

// Send appends the submitted body and redirects back to the thread. A blank
// body is dropped and the thread is rendered in place.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	conversationID, ok := pathID(r, "id")
	if !ok {
		apperrors.Write(w, apperrors.NotFound("Conversation not found"))
		return
	}

	// An unreadable body is treated as blank so that the participant check
	// still decides the response.
	body, err := readBody(r)
	if err != nil {
		logger.Debug().Err(err).Int64("user_id", userID).Msg("unreadable message body")
		body = ""
	}

	_, err = h.Messages.Send(r.Context(), userID, conversationID, body)
	switch {
	case errors.Is(err, messaging.ErrEmptyBody):
		h.renderThread(w, r, userID, conversationID)
	case err != nil:
		h.threadError(w, r, err)
	default:
		http.Redirect(w, r, threadPath(conversationID), http.StatusSeeOther)
	}
}

func (h *MessageHandler) renderThread(w http.ResponseWriter, r *http.Request, userID, conversationID int64) {
	thread, err := h.Messages.Thread(r.Context(), userID, conversationID)
	if err != nil {
		h.threadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

// threadError maps a failed thread access. Non-participants are sent back
// to their inbox without learning anything about the conversation.
func (h *MessageHandler) threadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, messaging.ErrNotFound):
		apperrors.Write(w, apperrors.NotFound("Conversation not found"))
	case errors.Is(err, messaging.ErrNotParticipant):
		http.Redirect(w, r, inboxPath, http.StatusFound)
	default:
		serverError(w, r, err)
	}
}

// readBody accepts either a JSON document or a form field named body.
func readBody(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", fmt.Errorf("invalid JSON body: %w", err)
		}
		return req.Body, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("invalid form body: %w", err)
	}
	return r.PostForm.Get("body"), nil
}
