// Package web serves the portal's pages.
package web

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Shym0608/News-Panel/internal/feed"
	"github.com/Shym0608/News-Panel/internal/home"
	"github.com/Shym0608/News-Panel/internal/logger"
	"github.com/Shym0608/News-Panel/internal/media"
	"github.com/Shym0608/News-Panel/internal/middleware"
	"github.com/Shym0608/News-Panel/internal/models"
	"github.com/Shym0608/News-Panel/internal/session"
	"github.com/Shym0608/News-Panel/internal/storage"
	"github.com/Shym0608/News-Panel/internal/view"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	version             = "1.0.0"
	loginRequiredFields = "Please enter both username and password"
)

// Backend is everything the pages read from the news backend.
type Backend interface {
	home.FeedSource
	StoryList(ctx context.Context) ([]models.NewsItem, error)
	DigitalList(ctx context.Context) ([]models.NewsItem, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// Deps are the collaborators of the handlers.
type Deps struct {
	Backend  Backend
	Resolver *media.Resolver
	Sessions *session.Manager
	Homes    *home.Registry
	Assets   storage.Store

	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration

	// KeepAlive is the ping interval of the session event stream.
	KeepAlive time.Duration
}

type Handlers struct {
	Deps

	done      chan struct{}
	closeOnce sync.Once
}

func NewHandlers(d Deps) *Handlers {
	if d.KeepAlive <= 0 {
		d.KeepAlive = 15 * time.Second
	}
	return &Handlers{Deps: d, done: make(chan struct{})}
}

// Close ends open event streams so the server can shut down.
func (h *Handlers) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Home handles GET /?search=&category=
func (h *Handlers) Home(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)

	// The controller keeps the query beyond this request.
	q := home.Query{
		Search:   utils.CopyString(c.Query("search")),
		Category: utils.CopyString(c.Query("category")),
	}
	snap := h.Homes.Get(sess.Key()).Load(c.UserContext(), q)

	return render(c, "home", fiber.Map{
		"Snapshot": snap,
		"Stories":  view.Cards(snap.Stories, h.Resolver, view.StoryCard),
		"Digital":  view.Cards(snap.Digital, h.Resolver, view.DigitalCard),
		"Live":     view.Cards(snap.Live, h.Resolver, view.RailVideo),
		"Sliding":  view.Cards(snap.Sliding, h.Resolver, view.RailVideo),
	})
}

// Search handles GET /search?q= from the navigation search box.
func (h *Handlers) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Redirect("/?"+url.Values{"search": {q}}.Encode(), fiber.StatusSeeOther)
}

// Category handles GET /category/:name from the category buttons.
func (h *Handlers) Category(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return fiber.ErrBadRequest
	}
	if name == "" || name == feed.AllCategories {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Redirect("/?"+url.Values{"category": {name}}.Encode(), fiber.StatusSeeOther)
}

// StoryNews handles GET /story-news
func (h *Handlers) StoryNews(c *fiber.Ctx) error {
	items, _ := h.Backend.StoryList(c.UserContext())
	return render(c, "list", fiber.Map{
		"Title":   "Latest Story News",
		"Heading": "📰 Latest Story News",
		"Story":   true,
		"Cards":   view.Cards(items, h.Resolver, view.StoryCard),
	})
}

// DigitalNews handles GET /digital-news
func (h *Handlers) DigitalNews(c *fiber.Ctx) error {
	items, _ := h.Backend.DigitalList(c.UserContext())
	return render(c, "list", fiber.Map{
		"Title":   "Latest Digital News",
		"Heading": "📺 Latest Digital News",
		"Story":   false,
		"Cards":   view.Cards(items, h.Resolver, view.DigitalCard),
	})
}

// Detail handles GET /news/:id?data=. The page renders from the payload
// carried in the link; the backend is not asked again.
func (h *Handlers) Detail(c *fiber.Ctx) error {
	item, err := view.DecodeDetail(c.Query("data"))
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, view.ErrNoPayload) {
			status = fiber.StatusNotFound
		}
		logger.Get().Debug().Err(err).Str("id", c.Params("id")).Msg("Detail payload rejected")
		return render(c.Status(status), "detail", fiber.Map{
			"Title": view.Message(err),
			"Error": view.Message(err),
		})
	}

	return render(c, "detail", fiber.Map{
		"Title":  item.Title,
		"Detail": view.NewDetail(item, h.Resolver),
	})
}

// LoginForm is the body of POST /login.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// LoginPage handles GET /login
func (h *Handlers) LoginPage(c *fiber.Ctx) error {
	return renderLogin(c, "", "")
}

// InvalidLogin re-renders the login page when a field is missing.
func (h *Handlers) InvalidLogin(c *fiber.Ctx, form *LoginForm, _ error) error {
	return renderLogin(c.Status(fiber.StatusUnprocessableEntity), form.Username, loginRequiredFields)
}

// Login handles POST /login. A rejected login stays on the page with the
// backend's message.
func (h *Handlers) Login(c *fiber.Ctx) error {
	form := middleware.Form[LoginForm](c)

	token, err := h.Backend.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		status := fiber.StatusBadGateway
		msg := "Login failed"
		var authErr *feed.AuthError
		if errors.As(err, &authErr) {
			status = fiber.StatusUnauthorized
			msg = authErr.Message
		}
		return renderLogin(c.Status(status), form.Username, msg)
	}

	if token != "" {
		if err := middleware.CurrentSession(c).Login(c.UserContext(), token); err != nil {
			return err
		}
	} else {
		logger.Get().Warn().Msg("Login accepted without a token, session stays logged out")
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func renderLogin(c *fiber.Ctx, username, notice string) error {
	return render(c, "login", fiber.Map{
		"Title":    "Login",
		"HideNav":  true,
		"Username": username,
		"Notice":   notice,
	})
}

// Logout handles POST /logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if err := middleware.CurrentSession(c).Logout(c.UserContext()); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// ToggleLanguage handles POST /lang and returns to the page it came from.
func (h *Handlers) ToggleLanguage(c *fiber.Ctx) error {
	next := langEn
	if language(c) == langEn {
		next = langGu
	}
	c.Cookie(&fiber.Cookie{
		Name:     langCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		Secure:   h.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(backPath(c.Get(fiber.HeaderReferer)), fiber.StatusSeeOther)
}

// backPath keeps only the path and query of a referer so the redirect
// never leaves the site.
func backPath(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	back := u.Path
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	return back
}
