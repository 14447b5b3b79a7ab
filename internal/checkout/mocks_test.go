package checkout

import (
	"context"

	"github.com/AriadnaNaya/BDD2/internal/catalog"
	"github.com/AriadnaNaya/BDD2/internal/domain"
	"github.com/AriadnaNaya/BDD2/internal/ledger"
	"github.com/AriadnaNaya/BDD2/internal/session"
)

// MockSessionStore implements SessionStore for testing
type MockSessionStore struct {
	Identities map[string]domain.Identity
	Err        error
}

func (m *MockSessionStore) Identity(_ context.Context, sessionID string) (domain.Identity, error) {
	if m.Err != nil {
		return domain.Identity{}, m.Err
	}
	identity, ok := m.Identities[sessionID]
	if !ok {
		return domain.Identity{}, session.ErrUnauthenticated
	}
	return identity, nil
}

// MockCartStore implements CartStore for testing
type MockCartStore struct {
	Carts      map[string]map[string]int64
	GetErr     error
	ClearErr   error
	ClearCalls int
}

func (m *MockCartStore) GetCart(_ context.Context, sessionID string) (map[string]int64, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	snapshot, ok := m.Carts[sessionID]
	if !ok {
		return map[string]int64{}, nil
	}
	return snapshot, nil
}

func (m *MockCartStore) Clear(_ context.Context, sessionID string) error {
	m.ClearCalls++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	delete(m.Carts, sessionID)
	return nil
}

// MockCatalog implements Catalog for testing
type MockCatalog struct {
	Products map[string]*domain.Product
	Err      error
}

func (m *MockCatalog) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	product, ok := m.Products[productID]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return product, nil
}

// MockLedger implements Ledger for testing
type MockLedger struct {
	Orders      map[string]*domain.Order // keyed by idempotency key
	CreateErrs  []error                  // consumed one per CreateOrder call
	CreateCalls int
	GetErr      error
}

func (m *MockLedger) CreateOrder(_ context.Context, order *domain.Order) error {
	m.CreateCalls++
	if len(m.CreateErrs) > 0 {
		err := m.CreateErrs[0]
		m.CreateErrs = m.CreateErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := m.Orders[order.IdempotencyKey]; exists {
		return ledger.ErrDuplicateAttempt
	}
	if m.Orders == nil {
		m.Orders = map[string]*domain.Order{}
	}
	m.Orders[order.IdempotencyKey] = order
	return nil
}

func (m *MockLedger) GetByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	order, ok := m.Orders[key]
	if !ok {
		return nil, ledger.ErrOrderNotFound
	}
	return order, nil
}
