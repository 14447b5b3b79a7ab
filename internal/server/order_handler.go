package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AriadnaNaya/BDD2/internal/domain"
	"github.com/AriadnaNaya/BDD2/internal/ledger"
)

type OrderHandler struct {
	orders ledger.OrderLedger
}

func NewOrderHandler(orders ledger.OrderLedger) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type UpdateOrderStatusDTO struct {
	Expected string `json:"expected"`
	Next     string `json:"next"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "user_id query parameter is required")
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("orders list for user %s failed: %v", userID, err)
		respondError(w, http.StatusBadGateway, "ledger_unavailable", "order listing failed")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a uuid")
		return
	}

	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, ledger.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "unknown order")
			return
		}
		log.Printf("order get %s failed: %v", orderID, err)
		respondError(w, http.StatusBadGateway, "ledger_unavailable", "order lookup failed")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus moves an order along the pending -> paid -> shipped chain
// (or to cancelled) with an expected-status guard against lost updates.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a uuid")
		return
	}

	var req UpdateOrderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	expected := domain.OrderStatus(req.Expected)
	next := domain.OrderStatus(req.Next)
	if !expected.CanTransitionTo(next) {
		respondError(w, http.StatusBadRequest, "invalid_transition", "status transition not allowed")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), orderID, expected, next); err != nil {
		switch {
		case errors.Is(err, ledger.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "order_not_found", "unknown order")
		case errors.Is(err, ledger.ErrStatusMismatch):
			respondError(w, http.StatusConflict, "status_mismatch", "order is not in the expected status")
		default:
			log.Printf("order status update %s failed: %v", orderID, err)
			respondError(w, http.StatusBadGateway, "ledger_unavailable", "order update failed")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
