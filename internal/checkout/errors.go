package checkout

import "errors"

var (
	ErrAuthenticationRequired = errors.New("checkout requires an authenticated session")
	ErrEmptyCart              = errors.New("cart is empty, nothing to checkout")

	// ErrCartClearFailed means the order was durably created but the cart
	// could not be retired. The order is still returned alongside this
	// error; the idempotency key guarantees a retried checkout resolves
	// to the same order instead of creating a second one.
	ErrCartClearFailed = errors.New("order persisted but cart clear failed")
)
