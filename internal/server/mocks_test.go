package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/AriadnaNaya/BDD2/internal/catalog"
	"github.com/AriadnaNaya/BDD2/internal/domain"
	"github.com/AriadnaNaya/BDD2/internal/identity"
	"github.com/AriadnaNaya/BDD2/internal/session"
)

type MockSessionStore struct {
	EnsureID  string
	EnsureErr error
	Bound     *domain.Identity
	AuthErr   error
	ClearErr  error

	AuthenticatedWith *domain.User
	Cleared           bool
}

func (m *MockSessionStore) Ensure(_ context.Context, presented string) (string, error) {
	if m.EnsureErr != nil {
		return "", m.EnsureErr
	}
	if m.EnsureID != "" {
		return m.EnsureID, nil
	}
	if presented != "" {
		if _, err := uuid.Parse(presented); err == nil {
			return presented, nil
		}
	}
	return uuid.NewString(), nil
}

func (m *MockSessionStore) Authenticate(_ context.Context, _ string, user domain.User) error {
	if m.AuthErr != nil {
		return m.AuthErr
	}
	m.AuthenticatedWith = &user
	m.Bound = &domain.Identity{UserID: user.ID, Email: user.Email}
	return nil
}

func (m *MockSessionStore) Identity(_ context.Context, _ string) (domain.Identity, error) {
	if m.Bound == nil {
		return domain.Identity{}, session.ErrUnauthenticated
	}
	return *m.Bound, nil
}

func (m *MockSessionStore) Clear(_ context.Context, _ string) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Cleared = true
	m.Bound = nil
	return nil
}

type MockCartStore struct {
	Items  map[string]int64
	AddErr error
	GetErr error
}

func (m *MockCartStore) AddItem(_ context.Context, _, productID string, quantity int64) (int64, error) {
	if m.AddErr != nil {
		return 0, m.AddErr
	}
	if m.Items == nil {
		m.Items = map[string]int64{}
	}
	m.Items[productID] += quantity
	return m.Items[productID], nil
}

func (m *MockCartStore) GetCart(_ context.Context, _ string) (map[string]int64, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	out := make(map[string]int64, len(m.Items))
	for k, v := range m.Items {
		out[k] = v
	}
	return out, nil
}

func (m *MockCartStore) RemoveItem(_ context.Context, _, productID string) error {
	delete(m.Items, productID)
	return nil
}

func (m *MockCartStore) Clear(_ context.Context, _ string) error {
	m.Items = map[string]int64{}
	return nil
}

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

func (m *MockCatalog) ListProducts(_ context.Context) ([]*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*domain.Product
	for _, product := range m.Products {
		out = append(out, product)
	}
	return out, nil
}

func (m *MockCatalog) CreateProduct(_ context.Context, product *domain.Product) error {
	if m.Err != nil {
		return m.Err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	m.Products[product.ID] = product
	return nil
}

func (m *MockCatalog) UpdateProduct(_ context.Context, product *domain.Product) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Products[product.ID]; !ok {
		return catalog.ErrProductNotFound
	}
	m.Products[product.ID] = product
	return nil
}

func (m *MockCatalog) DeleteProduct(_ context.Context, productID string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Products[productID]; !ok {
		return catalog.ErrProductNotFound
	}
	delete(m.Products, productID)
	return nil
}

type MockCheckoutService struct {
	Order *domain.Order
	Err   error
}

func (m *MockCheckoutService) Checkout(_ context.Context, _ string) (*domain.Order, error) {
	return m.Order, m.Err
}

type MockUserFinder struct {
	Users map[string]*domain.User // keyed by email
	Err   error
}

func (m *MockUserFinder) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.Users[email]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return user, nil
}
