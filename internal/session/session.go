package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Shym0608/News-Panel/internal/logger"
	"github.com/Shym0608/News-Panel/internal/utils"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// Manager loads sessions from the token store and routes their change
// events to subscribers.
type Manager struct {
	store TokenStore
	hub   *Hub

	// relaying is set while a watching store's subscription is live.
	relaying   atomic.Bool
	newBackOff func() *backoff.ExponentialBackOff
}

func NewManager(store TokenStore) *Manager {
	return &Manager{
		store:      store,
		hub:        NewHub(),
		newBackOff: relayBackOff,
	}
}

func relayBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

var errWatchEnded = errors.New("session watch ended")

// Session is the login state of one browser, valid for one request. It is
// handed to handlers explicitly; there is no global flag.
type Session struct {
	id       string
	key      string
	fresh    bool
	loggedIn bool
	mgr      *Manager
}

// NewID returns a random session identifier for the cookie.
func NewID() string {
	return uuid.NewString()
}

// KeyFor maps a cookie value to the store key. Raw ids are never stored.
func KeyFor(id string) string {
	return utils.Hash("session", id)
}

// Load returns the session for the cookie value id. An empty or malformed
// id starts a fresh, logged-out session.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	s := &Session{id: id, mgr: m}
	if _, err := uuid.Parse(id); err != nil {
		s.id = NewID()
		s.fresh = true
	}
	s.key = KeyFor(s.id)

	if s.fresh {
		return s, nil
	}

	token, err := m.store.Get(ctx, s.key)
	if err != nil {
		return s, fmt.Errorf("load session: %w", err)
	}
	s.loggedIn = token != ""
	return s, nil
}

// Subscribe listens for login changes of the session with the given key.
func (m *Manager) Subscribe(key string) (<-chan Event, func()) {
	return m.hub.Subscribe(key)
}

// Relay forwards changes observed by a watching store to local subscribers
// and blocks until ctx is done. A failed subscription is retried with
// backoff; until it is back, local writes are published directly. Stores
// that do not watch return at once.
func (m *Manager) Relay(ctx context.Context) error {
	w, ok := m.store.(Watcher)
	if !ok {
		return nil
	}

	b := m.newBackOff()
	watch := func() error {
		err := w.Watch(ctx, func() {
			m.relaying.Store(true)
			b.Reset()
		}, m.hub.Publish)
		m.relaying.Store(false)

		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = errWatchEnded
		}
		return err
	}
	onRetry := func(err error, wait time.Duration) {
		logger.Get().Warn().Err(err).Dur("retry_in", wait).Msg("Session event relay down, retrying")
	}

	err := backoff.RetryNotify(watch, backoff.WithContext(b, ctx), onRetry)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Manager) notify(key string, ev Event) {
	// A live relay delivers the store's own writes back to us.
	if m.relaying.Load() {
		return
	}
	m.hub.Publish(key, ev)
}

// ID is the cookie value.
func (s *Session) ID() string { return s.id }

// Key is the store key of the session.
func (s *Session) Key() string { return s.key }

// Fresh reports whether the session was created by this request, so the
// cookie still has to be set.
func (s *Session) Fresh() bool { return s.fresh }

func (s *Session) LoggedIn() bool { return s.loggedIn }

// Login persists token and marks the session as logged in.
func (s *Session) Login(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("login: empty token")
	}
	if err := s.mgr.store.Set(ctx, s.key, token); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.loggedIn = true
	s.mgr.notify(s.key, Event{LoggedIn: true})
	logger.Get().Info().Str("session", s.key[:12]).Msg("Session logged in")
	return nil
}

// Logout removes the token and marks the session as logged out.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.mgr.store.Clear(ctx, s.key); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.loggedIn = false
	s.mgr.notify(s.key, Event{LoggedIn: false})
	logger.Get().Info().Str("session", s.key[:12]).Msg("Session logged out")
	return nil
}
