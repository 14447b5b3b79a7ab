package billing

import (
	"context"
	"errors"

	"github.com/AriadnaNaya/BDD2/internal/domain"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrDuplicateInvoice means an invoice already exists for the order;
	// the consumer treats it as an already-processed event.
	ErrDuplicateInvoice = errors.New("invoice already exists for order")
)

type InvoiceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context) ([]*domain.Invoice, error)
	Create(ctx context.Context, invoice *domain.Invoice) error
	Update(ctx context.Context, invoice *domain.Invoice) error
	Delete(ctx context.Context, id string) error
	RegisterPayment(ctx context.Context, id string, payment domain.Payment) error
}
