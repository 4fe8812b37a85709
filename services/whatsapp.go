package services

import (
	"fmt"
	"net/url"
	"strings"
)

// FormatOrderMessage renders the order summary sent to the café owner.
// One bullet per line item with its quantity and line subtotal.
func FormatOrderMessage(items []CartLine, hostel string, total int64) string {
	var b strings.Builder
	b.WriteString("🛒 *New Order from Cafe Jampot Website*\n\n")
	fmt.Fprintf(&b, "*Hostel:* %s\n\n", hostel)
	b.WriteString("*Order:*\n")
	for _, it := range items {
		fmt.Fprintf(&b, "• %s x%d - ₹%d\n", it.Name, it.Qty, it.Price*int64(it.Qty))
	}
	fmt.Fprintf(&b, "\n💰 *Total: ₹%d*", total)
	return b.String()
}

// WhatsAppLink builds the wa.me deep link with the message pre-filled.
// Spaces are percent-encoded, not '+', so the chat opens with readable text.
func WhatsAppLink(phone, message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + encoded
}
