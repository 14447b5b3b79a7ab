package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AriadnaNaya/BDD2/internal/cart"
	"github.com/AriadnaNaya/BDD2/internal/catalog"
	"github.com/AriadnaNaya/BDD2/internal/domain"
)

type CartStore interface {
	AddItem(ctx context.Context, sessionID, productID string, quantity int64) (int64, error)
	GetCart(ctx context.Context, sessionID string) (map[string]int64, error)
	RemoveItem(ctx context.Context, sessionID, productID string) error
	Clear(ctx context.Context, sessionID string) error
}

type ProductGetter interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

type CartHandler struct {
	carts   CartStore
	catalog ProductGetter
}

func NewCartHandler(carts CartStore, catalog ProductGetter) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type AddItemResponseDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	// Reject unknown products before touching the cart.
	if _, err := h.catalog.GetProduct(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "unknown product")
			return
		}
		log.Printf("cart add: catalog lookup for %s failed: %v", req.ProductID, err)
		respondError(w, http.StatusBadGateway, "catalog_unavailable", "product lookup failed")
		return
	}

	newQty, err := h.carts.AddItem(r.Context(), sessionID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
			return
		}
		log.Printf("cart add: store write for session %s failed: %v", sessionID, err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "cart store unavailable")
		return
	}

	respondJSON(w, http.StatusCreated, AddItemResponseDTO{
		ProductID: req.ProductID,
		Quantity:  newQty,
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	items, err := h.carts.GetCart(r.Context(), sessionID)
	if err != nil {
		log.Printf("cart get: store read for session %s failed: %v", sessionID, err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "cart store unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	if err := h.carts.RemoveItem(r.Context(), sessionID, productID); err != nil {
		log.Printf("cart remove: store write for session %s failed: %v", sessionID, err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "cart store unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	if err := h.carts.Clear(r.Context(), sessionID); err != nil {
		log.Printf("cart clear: store write for session %s failed: %v", sessionID, err)
		respondError(w, http.StatusBadGateway, "cart_unavailable", "cart store unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
