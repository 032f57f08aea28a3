package web

import (
	"github.com/Shym0608/News-Panel/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", h.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/static/*", h.Asset)

	// Everything below knows the browser's session
	app.Use(middleware.NewSession(middleware.SessionConfig{
		Manager:    h.Sessions,
		CookieName: h.CookieName,
		MaxAge:     h.SessionTTL,
		Secure:     h.CookieSecure,
	}))

	app.Get("/", h.Home)
	app.Get("/search", h.Search)
	app.Get("/category/:name", h.Category)
	app.Get("/story-news", h.StoryNews)
	app.Get("/digital-news", h.DigitalNews)
	app.Get("/news/:id", h.Detail)

	app.Get("/login", h.LoginPage)
	app.Post("/login", middleware.ValidateForm(h.InvalidLogin), h.Login)
	app.Post("/logout", h.Logout)
	app.Post("/lang", h.ToggleLanguage)

	app.Get("/session/events", h.SessionEvents)

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
