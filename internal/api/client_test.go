package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superdupermart/storefront/internal/domain/chat"
	"github.com/superdupermart/storefront/internal/domain/identity"
	"github.com/superdupermart/storefront/internal/domain/shared"
	"github.com/superdupermart/storefront/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, opts...)
}

func TestClientHeaders(t *testing.T) {
	t.Run("attaches the bearer token when the provider has one", func(t *testing.T) {
		var got string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			_, _ = w.Write([]byte("[]"))
		}, WithTokenProvider(TokenFunc(func() string { return "tok-123" })))

		_, err := c.Catalog().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", got)
	})

	t.Run("omits the header when the provider returns empty", func(t *testing.T) {
		var got string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			_, _ = w.Write([]byte("[]"))
		}, WithTokenProvider(TokenFunc(func() string { return "" })))

		_, err := c.Catalog().List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("propagates the request id from the context", func(t *testing.T) {
		var got string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("X-Request-ID")
			_, _ = w.Write([]byte("[]"))
		})

		ctx, _ := logger.WithRequestID(context.Background(), zap.NewNop(), "req-42")
		_, err := c.Catalog().List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "req-42", got)
	})

	t.Run("generates a request id when the context has none", func(t *testing.T) {
		var got string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("X-Request-ID")
			_, _ = w.Write([]byte("[]"))
		})

		_, err := c.Catalog().List(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	})
}

func TestClientErrorMapping(t *testing.T) {
	respond := func(status int, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}
	}

	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{
			name:     "401 maps to unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"message":"token expired"}`,
			sentinel: shared.ErrUnauthorized,
			message:  "token expired",
		},
		{
			name:     "403 maps to forbidden",
			status:   http.StatusForbidden,
			body:     ``,
			sentinel: shared.ErrForbidden,
			message:  "Forbidden",
		},
		{
			name:     "404 maps to not found",
			status:   http.StatusNotFound,
			body:     `{"error":"no such product"}`,
			sentinel: shared.ErrNotFound,
			message:  "no such product",
		},
		{
			name:     "400 maps to invalid input",
			status:   http.StatusBadRequest,
			body:     `{"message":"quantity must be positive"}`,
			sentinel: shared.ErrInvalidInput,
			message:  "quantity must be positive",
		},
		{
			name:     "explicit backend code wins over the status",
			status:   http.StatusBadRequest,
			body:     `{"code":"INSUFFICIENT_STOCK","message":"only 2 left"}`,
			sentinel: shared.ErrInsufficientStock,
			message:  "only 2 left",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, respond(tt.status, tt.body))
			_, err := c.Catalog().Get(context.Background(), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.message, domainErr.Message)
		})
	}

	t.Run("500 with no body yields a server error", func(t *testing.T) {
		c := newTestClient(t, respond(http.StatusInternalServerError, ""))
		_, err := c.Catalog().Get(context.Background(), 1)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SERVER_ERROR", domainErr.Code)
	})
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second)
	_, err := c.Catalog().List(context.Background())
	assert.ErrorIs(t, err, shared.ErrTransport)
}

func TestAuthService(t *testing.T) {
	t.Run("login decodes the auth response", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/login", r.URL.Path)

			var req identity.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "alice", req.Username)

			_ = json.NewEncoder(w).Encode(identity.AuthResponse{
				Token:    "tok",
				Username: "alice",
				IsAdmin:  true,
			})
		})

		resp, err := c.Auth().Login(context.Background(), identity.LoginRequest{
			Username: "alice",
			Password: "secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok", resp.Token)
		assert.True(t, resp.IsAdmin)
	})

	t.Run("login rejects missing credentials before the network", func(t *testing.T) {
		called := false
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			called = true
		})

		_, err := c.Auth().Login(context.Background(), identity.LoginRequest{Username: "alice"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.False(t, called)
	})
}

func TestChatService(t *testing.T) {
	t.Run("send posts the message and decodes the reply", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/user/chat/message", r.URL.Path)

			var req chat.SendRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "hi", req.Message)

			_ = json.NewEncoder(w).Encode(chat.Message{
				SessionID: "s1",
				Text:      "hello",
				Role:      chat.RoleAssistant,
			})
		})

		reply, err := c.Chat().Send(context.Background(), chat.SendRequest{Message: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "s1", reply.SessionID)
		assert.Equal(t, chat.RoleAssistant, reply.Role)
	})

	t.Run("history hits the session-scoped path", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/user/chat/history/s1", r.URL.Path)
			_, _ = w.Write([]byte(`[{"sessionId":"s1","message":"hi","role":"user"}]`))
		})

		messages, err := c.Chat().History(context.Background(), "s1")
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "hi", messages[0].Text)
	})

	t.Run("delete history issues a DELETE", func(t *testing.T) {
		var method, path string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
		})

		require.NoError(t, c.Chat().DeleteHistory(context.Background(), "s1"))
		assert.Equal(t, http.MethodDelete, method)
		assert.Equal(t, "/user/chat/history/s1", path)
	})
}

func TestOrderServiceText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/orders/17/cancel", r.URL.Path)
		_, _ = w.Write([]byte("Order cancelled"))
	})

	msg, err := c.Orders().Cancel(context.Background(), 17)
	require.NoError(t, err)
	assert.Equal(t, "Order cancelled", msg)
}
