package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/superdupermart/storefront/internal/domain/chat"
	"github.com/superdupermart/storefront/internal/domain/shared"
)

// ChatService talks to the chat backend. The session id is assigned
// server side on the first exchange and threads every later call.
type ChatService struct {
	client *Client
}

// Send posts a message. SessionID may be empty on the first message of a
// conversation; the reply carries the id the backend assigned.
func (s *ChatService) Send(ctx context.Context, req chat.SendRequest) (chat.Message, error) {
	var reply chat.Message
	if err := shared.Validate(req); err != nil {
		return reply, err
	}
	if err := s.client.doJSON(ctx, http.MethodPost, "/user/chat/message", req, &reply); err != nil {
		return chat.Message{}, err
	}
	return reply, nil
}

// History returns the full transcript for a session id
func (s *ChatService) History(ctx context.Context, sessionID string) ([]chat.Message, error) {
	var messages []chat.Message
	path := "/user/chat/history/" + url.PathEscape(sessionID)
	if err := s.client.doJSON(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteHistory removes the remote transcript for a session id
func (s *ChatService) DeleteHistory(ctx context.Context, sessionID string) error {
	path := "/user/chat/history/" + url.PathEscape(sessionID)
	return s.client.doJSON(ctx, http.MethodDelete, path, nil, nil)
}
