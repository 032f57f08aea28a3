package web

import (
	"errors"
	"net/url"

	"github.com/Shym0608/News-Panel/internal/storage"
	"github.com/gofiber/fiber/v2"
)

// Asset handles GET /static/* from the asset store.
func (h *Handlers) Asset(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return fiber.ErrNotFound
	}

	rc, obj, err := h.Assets.Open(c.UserContext(), name)
	if errors.Is(err, storage.ErrNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	// The body stream is closed by fasthttp once sent.
	return c.SendStream(rc, int(obj.Size))
}
