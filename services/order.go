package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cafe-jampot/config"
	"cafe-jampot/db"
	"cafe-jampot/models"

	"github.com/go-playground/validator/v10"
)

// Hostels is the fixed delivery-target list. "Other" switches the form to a
// free-text hostel name.
var Hostels = []string{
	"Fr. Enright",
	"Nilima",
	"MTR",
	"St. Thomas",
	"NH (Girls)",
	"NH (Boys)",
	"Other",
}

const submitTimeout = 10 * time.Second

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrDeliveryClosed = errors.New("delivery is closed")
	ErrSubmitInFlight = errors.New("an order submission is already in progress")
)

// ValidationError is a recoverable input problem; nothing is persisted when
// one is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// OrderInput is what the customer fills in at checkout. Name and mobile are
// optional in the base flow; when present they must be well formed.
type OrderInput struct {
	Hostel       string `json:"hostel"`
	CustomHostel string `json:"customHostel"`
	CustomerName string `json:"customerName" validate:"omitempty,max=120"`
	Mobile       string `json:"mobile"`
}

// OrderResult is returned to the client after a successful submission.
type OrderResult struct {
	OrderID     int64  `json:"orderId"`
	GrandTotal  int64  `json:"grandTotal"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl"`
}

// OrderNotifier relays a placed order to the café owner. Implementations
// must not block the submission path on delivery failures.
type OrderNotifier interface {
	OrderPlaced(orderID int64, message string)
}

// OrderFlow drives Idle -> Validating -> Submitting -> Success/Failed.
// One submission per session may be in flight at a time.
type OrderFlow struct {
	carts    *CartStore
	gate     *Gate
	charges  config.DeliveryConfig
	phone    string
	notifier OrderNotifier
	validate *validator.Validate

	inflight sync.Map // session id -> struct{}
}

func NewOrderFlow(carts *CartStore, gate *Gate, charges config.DeliveryConfig, whatsappPhone string, notifier OrderNotifier) *OrderFlow {
	return &OrderFlow{
		carts:    carts,
		gate:     gate,
		charges:  charges,
		phone:    whatsappPhone,
		notifier: notifier,
		validate: validator.New(),
	}
}

// GrandTotal applies the surcharge/discount pair to the cart subtotal.
func (f *OrderFlow) GrandTotal(subtotal int64) int64 {
	return subtotal + f.charges.Surcharge - f.charges.Discount
}

// Submit validates the input, persists the order and only then composes the
// WhatsApp deep link and fires the owner notification. On persistence
// failure the cart is left untouched so the customer can retry.
func (f *OrderFlow) Submit(ctx context.Context, sessionID string, in OrderInput, userID *string) (*OrderResult, error) {
	if _, loaded := f.inflight.LoadOrStore(sessionID, struct{}{}); loaded {
		return nil, ErrSubmitInFlight
	}
	defer f.inflight.Delete(sessionID)

	if !f.gate.DeliveryOpen() {
		return nil, ErrDeliveryClosed
	}

	cart := f.carts.Snapshot(sessionID)
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	hostel, err := f.validateInput(in)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = models.OrderItem{
			ID:       line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Qty,
			IsVeg:    line.IsVeg,
		}
	}
	grandTotal := f.GrandTotal(cart.TotalPrice)

	insertCtx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()
	orderID, err := InsertOrder(insertCtx, models.CreateOrderInput{
		HostelName:   hostel,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Mobile:       strings.TrimSpace(in.Mobile),
		Items:        items,
		TotalAmount:  grandTotal,
		UserID:       userID,
	})
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	message := FormatOrderMessage(cart.Items, hostel, grandTotal)
	if f.notifier != nil {
		f.notifier.OrderPlaced(orderID, message)
	}

	f.carts.Clear(sessionID)

	return &OrderResult{
		OrderID:     orderID,
		GrandTotal:  grandTotal,
		Message:     message,
		WhatsAppURL: WhatsAppLink(f.phone, message),
	}, nil
}

func (f *OrderFlow) validateInput(in OrderInput) (hostel string, err error) {
	hostel = strings.TrimSpace(in.Hostel)
	if hostel == "Other" {
		hostel = strings.TrimSpace(in.CustomHostel)
	}
	if hostel == "" {
		return "", &ValidationError{Field: "hostel", Msg: "please select your hostel"}
	}

	if mobile := strings.TrimSpace(in.Mobile); mobile != "" {
		if digitCount(mobile) < 10 {
			return "", &ValidationError{Field: "mobile", Msg: "mobile number must have at least 10 digits"}
		}
	}

	if err := f.validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return "", &ValidationError{Field: strings.ToLower(ve[0].Field()), Msg: "invalid value"}
		}
		return "", &ValidationError{Field: "input", Msg: "invalid value"}
	}
	return hostel, nil
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// InsertOrder persists an order snapshot with status pending.
func InsertOrder(ctx context.Context, in models.CreateOrderInput) (int64, error) {
	itemsJSON, err := json.Marshal(in.Items)
	if err != nil {
		return 0, fmt.Errorf("marshal order items: %w", err)
	}

	var id int64
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO orders (hostel_name, customer_name, mobile, items, total_amount, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		in.HostelName, in.CustomerName, in.Mobile, itemsJSON, in.TotalAmount, models.OrderStatusPending, in.UserID,
	).Scan(&id)
	return id, err
}

// FetchOrders returns all orders, newest first (staff analytics).
func FetchOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, hostel_name, customer_name, mobile, items, total_amount, status, user_id, created_at
		FROM orders
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var itemsJSON []byte
		if err := rows.Scan(&o.ID, &o.HostelName, &o.CustomerName, &o.Mobile, &itemsJSON, &o.TotalAmount, &o.Status, &o.UserID, &o.CreatedAt); err != nil {
			return nil, err
		}
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
				return nil, fmt.Errorf("unmarshal order %d items: %w", o.ID, err)
			}
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
