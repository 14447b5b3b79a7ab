package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AriadnaNaya/BDD2/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateAttempt means an order with the same idempotency key
	// already exists; the caller should fetch it instead of retrying.
	ErrDuplicateAttempt = errors.New("duplicate checkout attempt")

	ErrStatusMismatch = errors.New("order status mismatch")
)

// OutboxEvent is a pending domain event, written in the same transaction
// as the order it belongs to and published asynchronously.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// OrderLedger defines the interface for durable order operations
// Consumers define this interface, not the Postgres implementation
type OrderLedger interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next domain.OrderStatus) error
	UnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, id int64) error
}
