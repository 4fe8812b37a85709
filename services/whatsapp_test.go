package services

import (
	"strings"
	"testing"
)

func TestFormatOrderMessage(t *testing.T) {
	items := []CartLine{
		{ItemID: "1", Name: "Honey Chili Fries", Price: 120, Qty: 2, IsVeg: true},
		{ItemID: "44", Name: "Cold Coffee", Price: 60, Qty: 1, IsVeg: true},
	}
	msg := FormatOrderMessage(items, "St. Thomas", 300)

	want := "🛒 *New Order from Cafe Jampot Website*\n\n" +
		"*Hostel:* St. Thomas\n\n" +
		"*Order:*\n" +
		"• Honey Chili Fries x2 - ₹240\n" +
		"• Cold Coffee x1 - ₹60\n" +
		"\n💰 *Total: ₹300*"
	if msg != want {
		t.Errorf("message mismatch:\ngot:  %q\nwant: %q", msg, want)
	}
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("918789512909", "Total: ₹120")
	if !strings.HasPrefix(link, "https://wa.me/918789512909?text=") {
		t.Errorf("unexpected link prefix: %s", link)
	}
	if strings.Contains(link, "+") {
		t.Errorf("spaces must be percent-encoded, not '+': %s", link)
	}
	if !strings.Contains(link, "%20") {
		t.Errorf("expected %%20 for space: %s", link)
	}
}
