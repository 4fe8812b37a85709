package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafe-jampot/config"
)

func testFlow(t *testing.T) (*OrderFlow, *CartStore, *Gate) {
	t.Helper()
	carts := NewCartStore(time.Hour)
	gate := NewGate()
	flow := NewOrderFlow(carts, gate, config.DeliveryConfig{Surcharge: 20, Discount: 20}, "918789512909", nil)
	return flow, carts, gate
}

func TestSubmitRejectsWhenDeliveryClosed(t *testing.T) {
	flow, carts, _ := testFlow(t) // gate starts closed
	carts.Add("s1", fries)
	_, err := flow.Submit(context.Background(), "s1", OrderInput{Hostel: "MTR"}, nil)
	if !errors.Is(err, ErrDeliveryClosed) {
		t.Errorf("Submit with closed gate: err = %v, want ErrDeliveryClosed", err)
	}
	if got := carts.Snapshot("s1"); got.TotalItems != 1 {
		t.Errorf("cart mutated on rejected submit: %+v", got)
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	flow, _, gate := testFlow(t)
	gate.SetDeliveryOpen(true)
	_, err := flow.Submit(context.Background(), "s1", OrderInput{Hostel: "MTR"}, nil)
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("Submit with empty cart: err = %v, want ErrEmptyCart", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	flow, carts, gate := testFlow(t)
	gate.SetDeliveryOpen(true)

	tests := []struct {
		name      string
		input     OrderInput
		wantField string
	}{
		{"missing hostel", OrderInput{}, "hostel"},
		{"blank custom hostel", OrderInput{Hostel: "Other", CustomHostel: "   "}, "hostel"},
		{"short mobile", OrderInput{Hostel: "MTR", Mobile: "12345"}, "mobile"},
		{"mobile with too few digits", OrderInput{Hostel: "MTR", Mobile: "+91 12 345"}, "mobile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts.Add("s1", fries)
			_, err := flow.Submit(context.Background(), "s1", tt.input, nil)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
			// Validation failures must not touch the cart.
			if got := carts.Snapshot("s1"); got.TotalItems == 0 {
				t.Error("cart cleared by failed validation")
			}
		})
	}
}

func TestSubmitAcceptsFormattedMobile(t *testing.T) {
	flow, _, _ := testFlow(t)
	// Ten digits spread over separators is fine.
	hostel, err := flow.validateInput(OrderInput{Hostel: "Nilima", Mobile: "+91 98765-43210"})
	if err != nil {
		t.Fatalf("validateInput: %v", err)
	}
	if hostel != "Nilima" {
		t.Errorf("hostel = %q, want Nilima", hostel)
	}
}

func TestValidateInputOtherHostel(t *testing.T) {
	flow, _, _ := testFlow(t)
	hostel, err := flow.validateInput(OrderInput{Hostel: "Other", CustomHostel: "  Lakeview Annex "})
	if err != nil {
		t.Fatalf("validateInput: %v", err)
	}
	if hostel != "Lakeview Annex" {
		t.Errorf("hostel = %q, want trimmed custom name", hostel)
	}
}

func TestGrandTotalChargesPair(t *testing.T) {
	carts := NewCartStore(time.Hour)
	gate := NewGate()
	tests := []struct {
		name      string
		surcharge int64
		discount  int64
		subtotal  int64
		want      int64
	}{
		{"promo cancels surcharge", 20, 20, 240, 240},
		{"plain surcharge", 30, 0, 100, 130},
		{"discount only", 0, 15, 100, 85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewOrderFlow(carts, gate, config.DeliveryConfig{Surcharge: tt.surcharge, Discount: tt.discount}, "", nil)
			if got := f.GrandTotal(tt.subtotal); got != tt.want {
				t.Errorf("GrandTotal(%d) = %d, want %d", tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestSubmitInFlightGuard(t *testing.T) {
	flow, carts, gate := testFlow(t)
	gate.SetDeliveryOpen(true)
	carts.Add("s1", fries)

	flow.inflight.Store("s1", struct{}{})
	_, err := flow.Submit(context.Background(), "s1", OrderInput{Hostel: "MTR"}, nil)
	if !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("re-entrant submit: err = %v, want ErrSubmitInFlight", err)
	}

	// A different session is not blocked by s1's guard (it fails later on
	// the closed-cart path instead).
	_, err = flow.Submit(context.Background(), "s2", OrderInput{Hostel: "MTR"}, nil)
	if errors.Is(err, ErrSubmitInFlight) {
		t.Error("guard leaked across sessions")
	}
}

func TestDigitCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"12345", 5},
		{"+91 98765 43210", 12},
		{"no digits", 0},
	}
	for _, tt := range tests {
		if got := digitCount(tt.in); got != tt.want {
			t.Errorf("digitCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
