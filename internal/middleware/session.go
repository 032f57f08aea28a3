package middleware

import (
	"time"

	"github.com/Shym0608/News-Panel/internal/logger"
	"github.com/Shym0608/News-Panel/internal/session"
	"github.com/gofiber/fiber/v2"
)

const sessionLocalsKey = "session"

// SessionConfig defines the config for the session middleware
type SessionConfig struct {
	// Skip defines a function to skip middleware.
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Manager loads the session of the request.
	// Required.
	Manager *session.Manager

	// CookieName is the name of the session cookie.
	// Optional. Default: "np_session"
	CookieName string

	// MaxAge is the lifetime of the session cookie.
	// Optional. Default: 30 days
	MaxAge time.Duration

	// Secure marks the cookie as HTTPS only.
	Secure bool
}

// DefaultSessionConfig is the default config
var DefaultSessionConfig = SessionConfig{
	CookieName: "np_session",
	MaxAge:     720 * time.Hour,
}

// NewSession loads the browser's session from its cookie and stores it in
// the request locals. Store failures degrade to a logged-out session.
func NewSession(config SessionConfig) fiber.Handler {
	cfg := config
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionConfig.CookieName
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultSessionConfig.MaxAge
	}
	if cfg.Manager == nil {
		panic("middleware: session manager is required")
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		sess, err := cfg.Manager.Load(c.UserContext(), c.Cookies(cfg.CookieName))
		if err != nil {
			logger.Get().Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("Failed to load session, continuing logged out")
		}

		if sess.Fresh() {
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    sess.ID(),
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				Secure:   cfg.Secure,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(sessionLocalsKey, sess)
		return c.Next()
	}
}

// CurrentSession returns the session stored by NewSession, or nil when the
// middleware did not run.
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionLocalsKey).(*session.Session)
	return sess
}
