package models

import "time"

// OrderItem is one line of an order snapshot. Price is the unit price at the
// time the order was placed; JSON tags match the stored items column shape.
type OrderItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	IsVeg    bool   `json:"isVeg"`
}

// Order is a row from the orders table. Never mutated after creation;
// status transitions belong to staff tooling.
type Order struct {
	ID           int64       `json:"id"`
	HostelName   string      `json:"hostel_name"`
	CustomerName string      `json:"customer_name,omitempty"`
	Mobile       string      `json:"mobile,omitempty"`
	Items        []OrderItem `json:"items"`
	TotalAmount  int64       `json:"total_amount"`
	Status       string      `json:"status"`
	UserID       *string     `json:"user_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

type CreateOrderInput struct {
	HostelName   string
	CustomerName string
	Mobile       string
	Items        []OrderItem
	TotalAmount  int64
	UserID       *string
}

const OrderStatusPending = "pending"
