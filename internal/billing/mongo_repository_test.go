package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/AriadnaNaya/BDD2/internal/domain"
	platform "github.com/AriadnaNaya/BDD2/internal/platform/mongodb"
)

func setupTestDB(t *testing.T) (InvoiceRepository, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := platform.Connect(ctx, uri, "testdb")
	require.NoError(t, err)

	err = EnsureIndexes(ctx, db)
	require.NoError(t, err)

	repo := NewMongoRepository(db)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestCreate_AssignsDefaults(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	invoice := &domain.Invoice{OrderID: "order-1", UserID: "user-1", Amount: 25.0}
	require.NoError(t, repo.Create(ctx, invoice))

	assert.NotEmpty(t, invoice.ID)
	assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)
	assert.False(t, invoice.IssuedAt.IsZero())

	fetched, err := repo.GetByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "order-1", fetched.OrderID)
	assert.Equal(t, 25.0, fetched.Amount)
}

func TestCreate_DuplicateOrderID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.Invoice{OrderID: "order-1", Amount: 25.0}))

	err := repo.Create(ctx, &domain.Invoice{OrderID: "order-1", Amount: 25.0})
	assert.ErrorIs(t, err, ErrDuplicateInvoice)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestRegisterPayment_MarksPaid(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	invoice := &domain.Invoice{OrderID: "order-1", UserID: "user-1", Amount: 25.0}
	require.NoError(t, repo.Create(ctx, invoice))

	payment := domain.Payment{Amount: 25.0}
	require.NoError(t, repo.RegisterPayment(ctx, invoice.ID, payment))

	fetched, err := repo.GetByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, fetched.Status)
	require.Len(t, fetched.Payments, 1)
	assert.Equal(t, 25.0, fetched.Payments[0].Amount)
}

func TestRegisterPayment_UnknownInvoice(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.RegisterPayment(context.Background(), "missing", domain.Payment{Amount: 1})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}
