package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/AriadnaNaya/BDD2/internal/catalog"
	"github.com/AriadnaNaya/BDD2/internal/checkout"
	"github.com/AriadnaNaya/BDD2/internal/domain"
)

type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string) (*domain.Order, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
}

func NewCheckoutHandler(service CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: service}
}

type CheckoutResponseDTO struct {
	OrderID string             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Items   []domain.OrderItem `json:"items"`
	Total   float64            `json:"total"`
	Status  string             `json:"status"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	order, err := h.checkout.Checkout(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrAuthenticationRequired):
			respondError(w, http.StatusUnauthorized, "unauthenticated", "checkout requires a logged-in session")
			return
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
			return
		case errors.Is(err, catalog.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "product_not_found", "cart references an unknown product")
			return
		case errors.Is(err, checkout.ErrCartClearFailed):
			// The order committed; only the cart cleanup failed. Return the
			// order, a retry will resolve to the same one.
			log.Printf("checkout: order %s committed but cart clear failed for session %s: %v", order.ID, sessionID, err)
		default:
			log.Printf("checkout: session %s failed: %v", sessionID, err)
			respondError(w, http.StatusBadGateway, "checkout_failed", "checkout could not complete")
			return
		}
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		OrderID: order.ID.String(),
		UserID:  order.UserID,
		Items:   order.Items,
		Total:   order.Total,
		Status:  order.Status.String(),
	})
}
