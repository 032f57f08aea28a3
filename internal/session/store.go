// Package session keeps the per-browser login flag. The flag is derived
// from the presence of a stored backend token and nothing else.
package session

import "context"

// TokenStore persists one credential token per session key.
// Get returns "" and no error when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, token string) error
	Clear(ctx context.Context, key string) error
	Close() error
}

// Watcher is implemented by stores that observe writes made by other
// portal instances. Watch calls ready once its subscription is live and
// then fn for every change until ctx is done or the subscription fails.
type Watcher interface {
	Watch(ctx context.Context, ready func(), fn func(key string, ev Event)) error
}

// Event tells subscribers of a session that its login flag changed.
type Event struct {
	LoggedIn bool `json:"loggedIn"`
}
