package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"cafe-jampot/services"

	"github.com/labstack/echo/v4"
)

// handleEvents streams gate changes (delivery flag, stock map) as
// server-sent events. The subscription is released when the client goes
// away, so no snapshot is written after teardown.
func (s *Server) handleEvents(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "streaming unsupported")
	}

	ch, cancel := s.gate.SubscribeChanges()
	defer cancel()

	// Initial snapshot so the client starts from current state.
	if err := writeEvent(res, flusher, s.gate.Snapshot()); err != nil {
		return nil
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-ch:
			if err := writeEvent(res, flusher, snap); err != nil {
				return nil
			}
		}
	}
}

func writeEvent(res *echo.Response, flusher http.Flusher, snap services.GateSnapshot) error {
	payload, err := json.Marshal(echo.Map{
		"deliveryOpen": snap.DeliveryOpen,
		"stock":        snap.Stock,
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
