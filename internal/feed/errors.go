package feed

import "errors"

var (
	// ErrNetwork covers transport failures and non-2xx responses.
	ErrNetwork = errors.New("backend request failed")
	// ErrBadShape means the body was not JSON of an accepted shape.
	ErrBadShape = errors.New("unexpected response shape")
)

// AuthError is returned by Login when the backend rejects the credentials.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

const defaultLoginMessage = "Login failed"
