package services

import (
	"sync"
	"time"

	"cafe-jampot/models"
)

// CartLine is one distinct item in a cart. Price and IsVeg are copied from
// the menu item at add time. Qty is always >= 1 for a line present in a cart.
type CartLine struct {
	ItemID string `json:"id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Qty    int    `json:"qty"`
	IsVeg  bool   `json:"isVeg"`
}

// Cart holds line items in insertion order. Not safe for concurrent use on
// its own; CartStore serializes access per session.
type Cart struct {
	lines []CartLine
}

func (c *Cart) index(itemID string) int {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem increments the quantity for an already-present item, otherwise
// appends a new line with quantity 1.
func (c *Cart) AddItem(item models.MenuItem) {
	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Qty++
		return
	}
	c.lines = append(c.lines, CartLine{
		ItemID: item.ID,
		Name:   item.Name,
		Price:  item.Price,
		Qty:    1,
		IsVeg:  item.IsVeg,
	})
}

// UpdateQuantity sets the quantity for the item. A quantity of zero or less
// removes the line so no zero-quantity entries can linger.
func (c *Cart) UpdateQuantity(itemID string, qty int) {
	i := c.index(itemID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Qty = qty
}

// RemoveItem removes the line if present; removing an absent id is a no-op.
func (c *Cart) RemoveItem(itemID string) {
	if i := c.index(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the line items in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) TotalItems() int {
	n := 0
	for i := range c.lines {
		n += c.lines[i].Qty
	}
	return n
}

func (c *Cart) TotalPrice() int64 {
	var total int64
	for i := range c.lines {
		total += c.lines[i].Price * int64(c.lines[i].Qty)
	}
	return total
}

// CartSnapshot is an immutable copy of a cart with its derived totals.
type CartSnapshot struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
}

type cartEntry struct {
	cart     Cart
	lastUsed time.Time
}

// CartStore owns the per-session carts. Carts live only in memory for the
// lifetime of the session; an idle session past the TTL is dropped by Sweep.
type CartStore struct {
	mu  sync.Mutex
	ttl time.Duration

	carts map[string]*cartEntry
}

func NewCartStore(ttl time.Duration) *CartStore {
	return &CartStore{
		ttl:   ttl,
		carts: make(map[string]*cartEntry),
	}
}

func (s *CartStore) entry(sessionID string) *cartEntry {
	e, ok := s.carts[sessionID]
	if !ok {
		e = &cartEntry{}
		s.carts[sessionID] = e
	}
	e.lastUsed = time.Now()
	return e
}

func (s *CartStore) Add(sessionID string, item models.MenuItem) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	e.cart.AddItem(item)
	return snapshot(&e.cart)
}

func (s *CartStore) UpdateQuantity(sessionID, itemID string, qty int) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	e.cart.UpdateQuantity(itemID, qty)
	return snapshot(&e.cart)
}

func (s *CartStore) Remove(sessionID, itemID string) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	e.cart.RemoveItem(itemID)
	return snapshot(&e.cart)
}

func (s *CartStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

func (s *CartStore) Snapshot(sessionID string) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[sessionID]
	if !ok {
		return CartSnapshot{Items: []CartLine{}}
	}
	e.lastUsed = time.Now()
	return snapshot(&e.cart)
}

// Sweep drops carts idle for longer than the TTL. Returns how many were
// removed.
func (s *CartStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.carts {
		if now.Sub(e.lastUsed) > s.ttl {
			delete(s.carts, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps periodically until stop is closed.
func (s *CartStore) RunSweeper(stop <-chan struct{}, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			s.Sweep(now)
		}
	}
}

func snapshot(c *Cart) CartSnapshot {
	return CartSnapshot{
		Items:      c.Lines(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
