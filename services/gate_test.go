package services

import (
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestGateStartsClosed(t *testing.T) {
	g := NewGate()
	if g.DeliveryOpen() {
		t.Error("unloaded gate must be closed (fail-closed)")
	}
}

func TestGateSnapshotIsolation(t *testing.T) {
	g := NewGate()
	g.SetStock("44", false)
	snap := g.Snapshot()
	snap.Stock["44"] = true // mutate the copy
	if avail, ok := g.Snapshot().Stock["44"]; !ok || avail {
		t.Error("snapshot mutation leaked into the gate")
	}
}

func TestGateApply(t *testing.T) {
	g := NewGate()

	g.Apply(RowChange{Table: TableDeliverySettings, IsOpen: boolPtr(true)})
	if !g.DeliveryOpen() {
		t.Error("delivery change not applied")
	}

	g.Apply(RowChange{Table: TableStockStatus, ItemID: "44", IsAvailable: boolPtr(false)})
	if avail, ok := g.Snapshot().Stock["44"]; !ok || avail {
		t.Error("stock change not applied")
	}

	// Malformed payloads are ignored, not applied half-way.
	g.Apply(RowChange{Table: TableStockStatus, ItemID: "", IsAvailable: boolPtr(false)})
	g.Apply(RowChange{Table: TableDeliverySettings})
	if !g.DeliveryOpen() {
		t.Error("empty delivery payload flipped the flag")
	}
}

func TestGateSubscribeChanges(t *testing.T) {
	g := NewGate()
	ch, cancel := g.SubscribeChanges()

	g.SetDeliveryOpen(true)
	select {
	case snap := <-ch:
		if !snap.DeliveryOpen {
			t.Errorf("snapshot = %+v, want delivery open", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	cancel()
	g.SetStock("1", false)
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("received snapshot after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
		// nothing delivered: correct
	}
}
