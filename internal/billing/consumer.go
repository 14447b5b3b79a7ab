package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/AriadnaNaya/BDD2/internal/domain"
)

// OrderCreatedEvent mirrors the Kafka payload shape from the ledger's
// outbox. Only the fields billing needs are decoded.
type OrderCreatedEvent struct {
	OrderID string  `json:"order_id"`
	UserID  string  `json:"user_id"`
	Total   float64 `json:"total"`
}

// Consumer turns order.created events into pending invoices. Creation is
// idempotent on the invoice collection's unique order_id index, so the
// poller's at-least-once delivery is safe.
type Consumer struct {
	repo   InvoiceRepository
	reader *kafka.Reader
}

func NewConsumer(repo InvoiceRepository, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-events",
		GroupID:  "billing-worker",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{repo, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	if err := c.handle(ctx, m.Value); err != nil {
		log.Printf("failed to handle order event: %v", err)
	}
}

func (c *Consumer) handle(ctx context.Context, payload []byte) error {
	var event OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("parse order event: %w", err)
	}
	if event.OrderID == "" {
		return fmt.Errorf("order event without order_id")
	}

	invoice := &domain.Invoice{
		OrderID: event.OrderID,
		UserID:  event.UserID,
		Amount:  event.Total,
		Status:  domain.InvoiceStatusPending,
	}

	if err := c.repo.Create(ctx, invoice); err != nil {
		if errors.Is(err, ErrDuplicateInvoice) {
			log.Printf("invoice for order %s already exists, skipping", event.OrderID)
			return nil
		}
		return fmt.Errorf("create invoice for order %s: %w", event.OrderID, err)
	}

	log.Printf("invoice %s created for order %s", invoice.ID, event.OrderID)
	return nil
}
