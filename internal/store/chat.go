package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/superdupermart/storefront/internal/domain/chat"
	"github.com/superdupermart/storefront/internal/domain/shared"
	"github.com/superdupermart/storefront/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ChatAPI is the slice of the backend client the chat store needs
type ChatAPI interface {
	Send(ctx context.Context, req chat.SendRequest) (chat.Message, error)
	History(ctx context.Context, sessionID string) ([]chat.Message, error)
	DeleteHistory(ctx context.Context, sessionID string) error
}

// ChatStore holds a running transcript keyed by a server-issued session
// id. Outgoing messages are echoed locally before the backend confirms
// them and rolled back if the send fails. A conversation moves through
// exactly one transition: no session, then an active session once the
// first send succeeds; only Clear or Reset return it to no session.
//
// Completions are guarded by an epoch counter: a response that arrives
// after the store has been cleared must not resurrect the conversation,
// so any completion whose epoch no longer matches is discarded.
type ChatStore struct {
	mu      sync.Mutex
	storage storage.Store
	api     ChatAPI
	logger  *zap.Logger
	bc      *broadcaster[[]chat.Message]

	sessionID string
	messages  []chat.Message
	epoch     uint64
	pending   uuid.UUID // zero when no send is in flight
	clock     func() time.Time
}

// NewChatStore rehydrates the transcript. If a session id was persisted,
// the remote history replaces the local transcript; if that fetch fails
// the transcript resets to empty but the id is kept. Only an explicit
// Clear discards it.
func NewChatStore(ctx context.Context, st storage.Store, api ChatAPI, logger *zap.Logger) *ChatStore {
	s := &ChatStore{
		storage: st,
		api:     api,
		logger:  logger,
		bc:      newBroadcaster[[]chat.Message](logger),
		clock:   time.Now,
	}

	data, err := st.Get(ctx, storage.KeyChatSessionID)
	if err != nil {
		return s
	}
	s.sessionID = string(data)
	if s.sessionID == "" {
		return s
	}

	history, err := api.History(ctx, s.sessionID)
	if err != nil {
		logger.Warn("failed to load chat history, starting with empty transcript",
			zap.String("session_id", s.sessionID),
			zap.Error(err),
		)
		return s
	}
	s.messages = history
	return s
}

// Subscribe registers a listener for transcript transitions
func (s *ChatStore) Subscribe(fn Listener[[]chat.Message]) Unsubscribe {
	return s.bc.subscribe(fn)
}

// Send posts a message to the conversation. The user message is echoed
// into the transcript immediately and either confirmed (and joined by
// the assistant's reply) or rolled back when the backend answers. Only
// one send may be in flight at a time; a blank message is rejected.
func (s *ChatStore) Send(ctx context.Context, text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, shared.ErrInvalidInput
	}

	s.mu.Lock()
	if s.pending != uuid.Nil {
		s.mu.Unlock()
		return chat.Message{}, shared.ErrSendInFlight
	}
	op := uuid.New()
	s.pending = op
	epoch := s.epoch
	sessionID := s.sessionID

	echo := chat.Message{
		SessionID: sessionID,
		Text:      text,
		Role:      chat.RoleUser,
		Timestamp: s.clock(),
	}
	s.messages = append(s.messages, echo)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.bc.publish(snapshot)

	reply, err := s.api.Send(ctx, chat.SendRequest{Message: text, SessionID: sessionID})

	s.mu.Lock()
	if s.epoch != epoch {
		// The store was cleared while the request was in flight. The
		// transcript this completion belongs to no longer exists, so it
		// is discarded without touching current state.
		s.mu.Unlock()
		s.logger.Debug("discarding stale chat completion")
		if err != nil {
			return chat.Message{}, err
		}
		return reply, nil
	}
	s.pending = uuid.Nil

	if err != nil {
		// Roll back the optimistic echo. Exactly one send is ever in
		// flight, so the echo is still the last transcript entry.
		s.messages = s.messages[:len(s.messages)-1]
		snapshot = s.snapshotLocked()
		s.mu.Unlock()

		s.bc.publish(snapshot)
		return chat.Message{}, err
	}

	if s.sessionID == "" {
		s.sessionID = reply.SessionID
		if setErr := s.storage.Set(ctx, storage.KeyChatSessionID, []byte(reply.SessionID)); setErr != nil {
			s.logger.Warn("failed to persist chat session id", zap.Error(setErr))
		}
	}
	// Retro-fit the server-assigned id onto the echoed message so the
	// whole transcript shares one session id.
	s.messages[len(s.messages)-1].SessionID = reply.SessionID
	s.messages = append(s.messages, reply)
	snapshot = s.snapshotLocked()
	s.mu.Unlock()

	s.bc.publish(snapshot)
	return reply, nil
}

// Clear destroys the conversation: a best-effort remote delete of the
// transcript, then an unconditional drop of the local session id and
// transcript. Remote failure is ignored.
func (s *ChatStore) Clear(ctx context.Context) {
	s.mu.Lock()
	sessionID := s.sessionID
	s.mu.Unlock()

	if sessionID != "" {
		if err := s.api.DeleteHistory(ctx, sessionID); err != nil {
			s.logger.Debug("remote chat history delete failed",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}

	s.Reset()
}

// Reset drops the local session id and transcript without contacting the
// backend. Registered as the session store's logout hook. Any in-flight
// send becomes stale and its completion will be discarded.
func (s *ChatStore) Reset() {
	s.mu.Lock()
	if err := s.storage.Delete(context.Background(), storage.KeyChatSessionID); err != nil {
		s.logger.Warn("failed to delete persisted chat session id", zap.Error(err))
	}
	s.sessionID = ""
	s.messages = nil
	s.epoch++
	s.pending = uuid.Nil
	s.mu.Unlock()

	s.bc.publish(nil)
}

// Messages returns a copy of the current transcript
func (s *ChatStore) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SessionID returns the server-assigned conversation id, or the empty
// string before the first successful send
func (s *ChatStore) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// InFlight reports whether a send is currently awaiting its completion
func (s *ChatStore) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != uuid.Nil
}

func (s *ChatStore) snapshotLocked() []chat.Message {
	snapshot := make([]chat.Message, len(s.messages))
	copy(snapshot, s.messages)
	return snapshot
}
