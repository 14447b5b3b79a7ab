package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

type Payment struct {
	Amount float64   `bson:"amount" json:"amount"`
	PaidAt time.Time `bson:"paid_at" json:"paid_at"`
}

type Invoice struct {
	ID       string        `bson:"_id,omitempty" json:"id"`
	OrderID  string        `bson:"order_id" json:"order_id"`
	UserID   string        `bson:"user_id" json:"user_id"`
	Amount   float64       `bson:"amount" json:"amount"`
	Status   InvoiceStatus `bson:"status" json:"status"`
	IssuedAt time.Time     `bson:"issued_at" json:"issued_at"`
	Payments []Payment     `bson:"payments,omitempty" json:"payments,omitempty"`
}
