package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AriadnaNaya/BDD2/internal/catalog"
	"github.com/AriadnaNaya/BDD2/internal/domain"
	"github.com/AriadnaNaya/BDD2/internal/ledger"
	"github.com/AriadnaNaya/BDD2/internal/session"
)

// ResolutionPolicy decides what happens when a cart line references a
// product the catalog no longer knows.
type ResolutionPolicy string

const (
	// PolicyStrict aborts the whole checkout on any unresolved product.
	PolicyStrict ResolutionPolicy = "strict"
	// PolicyLenient drops the unresolved line and prices the rest.
	PolicyLenient ResolutionPolicy = "lenient"
)

type SessionStore interface {
	Identity(ctx context.Context, sessionID string) (domain.Identity, error)
}

type CartStore interface {
	GetCart(ctx context.Context, sessionID string) (map[string]int64, error)
	Clear(ctx context.Context, sessionID string) error
}

type Catalog interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

type Ledger interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
}

// Service turns a live cart into a durable, priced order and retires the
// cart. The persist and clear steps touch two independently-failing
// stores with no shared transaction; the content-derived idempotency key
// is what keeps a retry after a partial failure from minting a second
// order.
type Service struct {
	sessions SessionStore
	carts    CartStore
	catalog  Catalog
	ledger   Ledger
	policy   ResolutionPolicy

	// Bounded retry applies to the ledger write only; every other store
	// call in the flow is safe to retry at the caller's discretion.
	persistAttempts int
	persistBackoff  time.Duration
}

func NewService(sessions SessionStore, carts CartStore, catalog Catalog, ledger Ledger, policy ResolutionPolicy) *Service {
	if policy != PolicyLenient {
		policy = PolicyStrict
	}
	return &Service{
		sessions:        sessions,
		carts:           carts,
		catalog:         catalog,
		ledger:          ledger,
		policy:          policy,
		persistAttempts: 3,
		persistBackoff:  100 * time.Millisecond,
	}
}

func (s *Service) Checkout(ctx context.Context, sessionID string) (*domain.Order, error) {
	state := StateValidating

	identity, err := s.sessions.Identity(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			return nil, ErrAuthenticationRequired
		}
		return nil, fmt.Errorf("resolve session identity: %w", err)
	}

	snapshot, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read cart snapshot: %w", err)
	}
	if len(snapshot) == 0 {
		return nil, ErrEmptyCart
	}

	state = advance(state, StatePricing, sessionID)

	items, total, err := s.priceLines(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		// Lenient mode dropped every line.
		return nil, ErrEmptyCart
	}

	state = advance(state, StatePersisting, sessionID)

	order := &domain.Order{
		ID:             uuid.New(),
		IdempotencyKey: idempotencyKey(sessionID, snapshot),
		UserID:         identity.UserID,
		Items:          items,
		Total:          total,
		Status:         domain.OrderStatusPending,
	}

	order, err = s.persist(ctx, order)
	if err != nil {
		return nil, err
	}

	state = advance(state, StateClearing, sessionID)

	if clearErr := s.carts.Clear(ctx, sessionID); clearErr != nil {
		// The order exists but the cart survived. Surface it loudly: a
		// retried checkout will hit the idempotency key and resolve to
		// this same order rather than duplicating it.
		log.Printf("checkout %s: cart clear failed after persist for session %s: %v", order.ID, sessionID, clearErr)
		return order, fmt.Errorf("%w: %v", ErrCartClearFailed, clearErr)
	}

	advance(state, StateDone, sessionID)
	return order, nil
}

// priceLines resolves and prices each snapshot line in sorted product-id
// order, which keeps the idempotency hash input stable across retries.
func (s *Service) priceLines(ctx context.Context, snapshot map[string]int64) ([]domain.OrderItem, float64, error) {
	productIDs := sortedIDs(snapshot)

	items := make([]domain.OrderItem, 0, len(productIDs))
	var total float64
	for _, productID := range productIDs {
		quantity := snapshot[productID]

		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			if s.policy == PolicyLenient && isNotFound(err) {
				log.Printf("checkout: dropping unresolved product %s from order", productID)
				continue
			}
			if isNotFound(err) {
				return nil, 0, fmt.Errorf("resolve product %s: %w", productID, err)
			}
			return nil, 0, fmt.Errorf("catalog lookup for product %s: %w", productID, err)
		}

		subtotal := product.Price * float64(quantity)
		total += subtotal
		items = append(items, domain.OrderItem{
			ProductID: productID,
			Name:      product.Name,
			Quantity:  quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})
	}

	return items, total, nil
}

// persist writes the order through the ledger with a bounded retry. A
// duplicate key means a previous attempt already committed; the original
// order is fetched and returned in its place.
func (s *Service) persist(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	var lastErr error
	for attempt := 1; attempt <= s.persistAttempts; attempt++ {
		err := s.ledger.CreateOrder(ctx, order)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, ledger.ErrDuplicateAttempt) {
			log.Printf("checkout: duplicate attempt for idempotency key %s, returning original order", order.IdempotencyKey)
			existing, getErr := s.ledger.GetByIdempotencyKey(ctx, order.IdempotencyKey)
			if getErr != nil {
				return nil, fmt.Errorf("fetch order for duplicate attempt: %w", getErr)
			}
			return existing, nil
		}

		lastErr = err
		if attempt < s.persistAttempts {
			select {
			case <-time.After(s.persistBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("persist order: %w", lastErr)
}

// idempotencyKey derives a stable token for one logical checkout attempt
// from the session and the exact cart contents.
func idempotencyKey(sessionID string, snapshot map[string]int64) string {
	h := sha256.New()
	for _, productID := range sortedIDs(snapshot) {
		fmt.Fprintf(h, "%s=%d\n", productID, snapshot[productID])
	}
	return fmt.Sprintf("%s:%s", sessionID, hex.EncodeToString(h.Sum(nil)))
}

func sortedIDs(snapshot map[string]int64) []string {
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func isNotFound(err error) bool {
	return errors.Is(err, catalog.ErrProductNotFound)
}

func advance(from, to State, sessionID string) State {
	if !from.CanTransitionTo(to) {
		log.Printf("checkout: illegal state transition %s -> %s for session %s", from, to, sessionID)
		return from
	}
	return to
}
