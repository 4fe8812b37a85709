package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"cafe-jampot/db"
)

// Notification channels, one per watched table. Triggers in the schema call
// pg_notify with these names and a JSON row payload.
const (
	TableStockStatus      = "stock_status"
	TableDeliverySettings = "delivery_settings"
)

// RowChange is the decoded pg_notify payload for a watched table.
type RowChange struct {
	Table       string `json:"table"`
	ItemID      string `json:"item_id,omitempty"`
	IsAvailable *bool  `json:"is_available,omitempty"`
	IsOpen      *bool  `json:"is_open,omitempty"`
}

// Subscription is a live LISTEN loop on a dedicated pool connection.
// Close releases the connection; after Close returns no further handler
// calls are made.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Subscribe LISTENs on the given channels and invokes fn for every decoded
// row change. Handler calls happen on a single goroutine, in arrival order.
func Subscribe(ctx context.Context, channels []string, fn func(RowChange)) (*Subscription, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen conn: %w", err)
	}
	for _, ch := range channels {
		if _, err := conn.Exec(ctx, "LISTEN "+ch); err != nil {
			conn.Release()
			return nil, fmt.Errorf("listen %s: %w", ch, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				slog.Error("realtime: wait for notification", "err", err)
				return
			}
			var change RowChange
			if err := json.Unmarshal([]byte(n.Payload), &change); err != nil {
				slog.Error("realtime: decode payload", "channel", n.Channel, "err", err)
				continue
			}
			if change.Table == "" {
				change.Table = n.Channel
			}
			fn(change)
		}
	}()

	return sub, nil
}
