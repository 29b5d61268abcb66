package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
	"github.com/layer-3/nearstore/storage"
	"go.uber.org/zap"
)

// SessionStorageKey is the storage key the session status lives under
const SessionStorageKey = "NEAR_INFO"

// SessionStore owns the process-wide session status. Every mutation is
// written to storage before memory changes, then observers are notified.
type SessionStore struct {
	storage *storage.Adapter
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.RWMutex
	status    core.SessionStatus
	observers map[int]ports.SessionObserver
	nextID    int
	seq       uint64

	// notifications are delivered strictly in seq order
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	notified   uint64
}

// NewSessionStore loads the persisted status. A missing or unreadable value
// starts from an empty status.
func NewSessionStore(ctx context.Context, st *storage.Adapter, logger *zap.Logger, observers ...ports.SessionObserver) *SessionStore {
	status, err := storage.Get(ctx, st, SessionStorageKey, core.SessionStatus{})
	if err != nil {
		logger.Warn("failed to load session status, starting empty", zap.Error(err))
		status = core.SessionStatus{}
	}

	s := &SessionStore{
		storage:   st,
		logger:    logger,
		now:       time.Now,
		status:    status,
		observers: make(map[int]ports.SessionObserver),
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	for _, o := range observers {
		s.Subscribe(o)
	}
	return s
}

// Status returns a copy of the current session status
func (s *SessionStore) Status() core.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyStatus(s.status)
}

// SetSession replaces the session status
func (s *SessionStore) SetSession(ctx context.Context, status core.SessionStatus) error {
	status = copyStatus(status)
	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = s.now()
	}
	status.UpdatedAt = status.UpdatedAt.UTC().Round(0)

	return s.commit(ctx, func(core.SessionStatus) core.SessionStatus {
		return status
	})
}

// SignOut marks the session as signed out and persists the full status
func (s *SessionStore) SignOut(ctx context.Context) error {
	return s.commit(ctx, func(current core.SessionStatus) core.SessionStatus {
		next := copyStatus(current)
		next.IsSignedIn = false
		next.UpdatedAt = s.now().UTC().Round(0)
		return next
	})
}

// Subscribe registers o for change notifications and returns a function
// that removes it
func (s *SessionStore) Subscribe(o ports.SessionObserver) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = o

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// commit derives the next status from the current one under the write lock.
// Observers run after the lock is released, one commit at a time and in the
// order the commits were applied. An observer must not mutate the store.
func (s *SessionStore) commit(ctx context.Context, update func(core.SessionStatus) core.SessionStatus) error {
	s.mu.Lock()
	status := update(s.status)
	if err := s.storage.Set(ctx, SessionStorageKey, status); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist session status: %w", err)
	}
	s.status = status
	s.seq++
	seq := s.seq

	observers := make([]ports.SessionObserver, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	s.logger.Debug("session status changed",
		zap.Uint64("seq", seq),
		zap.Bool("signed_in", status.IsSignedIn),
		zap.String("account_id", status.AccountID))

	s.notifyMu.Lock()
	for s.notified != seq-1 {
		s.notifyCond.Wait()
	}
	for _, o := range observers {
		if err := o.SessionChanged(ctx, copyStatus(status)); err != nil {
			s.logger.Warn("session observer failed", zap.Error(err))
		}
	}
	s.notified = seq
	s.notifyCond.Broadcast()
	s.notifyMu.Unlock()
	return nil
}

func copyStatus(status core.SessionStatus) core.SessionStatus {
	if status.AllKeys != nil {
		status.AllKeys = append([]string(nil), status.AllKeys...)
	}
	return status
}
