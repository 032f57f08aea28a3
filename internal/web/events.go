package web

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shym0608/News-Panel/internal/logger"
	"github.com/Shym0608/News-Panel/internal/middleware"
	"github.com/Shym0608/News-Panel/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// SessionEvents handles GET /session/events, a server-sent event stream of
// login changes of the caller's session. Other tabs of the same browser use
// it to switch between Login and Logout without a reload of their own.
func (h *Handlers) SessionEvents(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set(fiber.HeaderTransferEncoding, "chunked")

	events, cancel := h.Sessions.Subscribe(sess.Key())
	initial := session.Event{LoggedIn: sess.LoggedIn()}
	key := sess.Key()[:12]
	keepAlive := h.KeepAlive
	done := h.done

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		if err := streamEvents(w, initial, events, ticker.C, done); err != nil {
			logger.Get().Debug().Err(err).Str("session", key).Msg("Session event stream closed")
		}
	}))

	return nil
}

// streamEvents writes the current state and then every change until the
// subscription ends, done is closed or the client goes away.
func streamEvents(w *bufio.Writer, initial session.Event, events <-chan session.Event, ping <-chan time.Time, done <-chan struct{}) error {
	if err := writeEvent(w, "session", initial); err != nil {
		return err
	}

	for {
		select {
		case <-done:
			return nil
		case <-ping:
			if _, err := fmt.Fprint(w, "event: ping\ndata: \n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := writeEvent(w, "session", ev); err != nil {
				return err
			}
		}
	}
}

func writeEvent(w *bufio.Writer, name string, ev session.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return w.Flush()
}
