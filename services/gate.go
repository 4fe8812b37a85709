package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"cafe-jampot/db"
	"cafe-jampot/models"

	"github.com/jackc/pgx/v5"
)

// GateSnapshot is an immutable view of ordering availability. Stock is a
// private copy so readers are never exposed to in-flight updates.
type GateSnapshot struct {
	DeliveryOpen bool
	Stock        models.StockMap
}

// Gate combines the admin-controlled delivery flag with the per-item stock
// map and fans out changes to in-process subscribers (the SSE bridge).
type Gate struct {
	mu    sync.RWMutex
	open  bool
	stock models.StockMap

	subMu sync.Mutex
	subs  map[chan GateSnapshot]struct{}
}

func NewGate() *Gate {
	return &Gate{
		stock: make(models.StockMap),
		subs:  make(map[chan GateSnapshot]struct{}),
	}
}

// Load seeds the gate from the database. A delivery flag fetch failure is
// fail-closed (ordering off); a stock fetch failure is fail-open for display
// (empty map, every item visible).
func (g *Gate) Load(ctx context.Context) {
	open, err := FetchDeliveryOpen(ctx)
	if err != nil {
		slog.Error("gate: fetch delivery flag, assuming closed", "err", err)
		open = false
	}

	stock, err := FetchStockStatus(ctx)
	if err != nil {
		slog.Error("gate: fetch stock status, assuming all available", "err", err)
		stock = make(models.StockMap)
	}

	g.mu.Lock()
	g.open = open
	g.stock = stock
	g.mu.Unlock()
}

func (g *Gate) Snapshot() GateSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	stock := make(models.StockMap, len(g.stock))
	for k, v := range g.stock {
		stock[k] = v
	}
	return GateSnapshot{DeliveryOpen: g.open, Stock: stock}
}

func (g *Gate) DeliveryOpen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.open
}

// SetDeliveryOpen folds a delivery flag change into the gate and notifies
// subscribers.
func (g *Gate) SetDeliveryOpen(open bool) {
	g.mu.Lock()
	g.open = open
	g.mu.Unlock()
	g.publish()
}

// SetStock folds a single stock change into the live map without reloading
// the catalog, then notifies subscribers.
func (g *Gate) SetStock(itemID string, available bool) {
	g.mu.Lock()
	g.stock[itemID] = available
	g.mu.Unlock()
	g.publish()
}

// Apply routes a decoded row change from the realtime listener.
func (g *Gate) Apply(change RowChange) {
	switch change.Table {
	case TableDeliverySettings:
		if change.IsOpen != nil {
			g.SetDeliveryOpen(*change.IsOpen)
		}
	case TableStockStatus:
		if change.ItemID != "" && change.IsAvailable != nil {
			g.SetStock(change.ItemID, *change.IsAvailable)
		}
	}
}

// SubscribeChanges registers an in-process listener. Every gate change
// delivers a fresh snapshot; the returned func unsubscribes and must be
// called on teardown so no writes land after the consumer is gone.
func (g *Gate) SubscribeChanges() (<-chan GateSnapshot, func()) {
	ch := make(chan GateSnapshot, 8)
	g.subMu.Lock()
	g.subs[ch] = struct{}{}
	g.subMu.Unlock()

	cancel := func() {
		g.subMu.Lock()
		delete(g.subs, ch)
		g.subMu.Unlock()
	}
	return ch, cancel
}

func (g *Gate) publish() {
	snap := g.Snapshot()
	g.subMu.Lock()
	defer g.subMu.Unlock()
	for ch := range g.subs {
		select {
		case ch <- snap:
		default: // slow consumer: drop, next change carries full state anyway
		}
	}
}

// FetchDeliveryOpen reads the single delivery_settings row.
func FetchDeliveryOpen(ctx context.Context) (bool, error) {
	var open bool
	err := db.Pool.QueryRow(ctx, `SELECT is_open FROM delivery_settings ORDER BY id LIMIT 1`).Scan(&open)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return open, nil
}

// UpdateDeliveryOpen persists the admin toggle. The row-change trigger
// notifies every listening process, including this one.
func UpdateDeliveryOpen(ctx context.Context, open bool) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE delivery_settings SET is_open = $1, updated_at = now()
		WHERE id = (SELECT id FROM delivery_settings ORDER BY id LIMIT 1)`,
		open,
	)
	return err
}

// FetchStockStatus loads the out-of-stock map. Only explicit rows exist;
// items without a row are available.
func FetchStockStatus(ctx context.Context) (models.StockMap, error) {
	rows, err := db.Pool.Query(ctx, `SELECT item_id, is_available FROM stock_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stock := make(models.StockMap)
	for rows.Next() {
		var id string
		var avail bool
		if err := rows.Scan(&id, &avail); err != nil {
			return nil, err
		}
		stock[id] = avail
	}
	return stock, rows.Err()
}

// UpsertStockStatus records an item's availability toggle.
func UpsertStockStatus(ctx context.Context, itemID, itemName string, available bool) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO stock_status (item_id, item_name, is_available, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id) DO UPDATE SET
			item_name = $2,
			is_available = $3,
			updated_at = now()`,
		itemID, itemName, available,
	)
	return err
}
