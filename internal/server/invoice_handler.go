package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AriadnaNaya/BDD2/internal/billing"
	"github.com/AriadnaNaya/BDD2/internal/domain"
)

type InvoiceHandler struct {
	invoices billing.InvoiceRepository
}

func NewInvoiceHandler(invoices billing.InvoiceRepository) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type PayInvoiceDTO struct {
	Amount float64 `json:"amount"`
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.List(r.Context())
	if err != nil {
		log.Printf("invoices list failed: %v", err)
		respondError(w, http.StatusBadGateway, "billing_unavailable", "invoice listing failed")
		return
	}
	if invoices == nil {
		invoices = []*domain.Invoice{}
	}
	respondJSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoice_id")

	invoice, err := h.invoices.GetByID(r.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			respondError(w, http.StatusNotFound, "invoice_not_found", "unknown invoice")
			return
		}
		log.Printf("invoice get %s failed: %v", invoiceID, err)
		respondError(w, http.StatusBadGateway, "billing_unavailable", "invoice lookup failed")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var invoice domain.Invoice
	if err := json.NewDecoder(r.Body).Decode(&invoice); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if invoice.OrderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_invoice", "order_id is required")
		return
	}

	if err := h.invoices.Create(r.Context(), &invoice); err != nil {
		if errors.Is(err, billing.ErrDuplicateInvoice) {
			respondError(w, http.StatusConflict, "duplicate_invoice", "order already has an invoice")
			return
		}
		log.Printf("invoice create failed: %v", err)
		respondError(w, http.StatusBadGateway, "billing_unavailable", "invoice create failed")
		return
	}
	respondJSON(w, http.StatusCreated, invoice)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoice_id")

	var invoice domain.Invoice
	if err := json.NewDecoder(r.Body).Decode(&invoice); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	invoice.ID = invoiceID

	if err := h.invoices.Update(r.Context(), &invoice); err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			respondError(w, http.StatusNotFound, "invoice_not_found", "unknown invoice")
			return
		}
		log.Printf("invoice update %s failed: %v", invoiceID, err)
		respondError(w, http.StatusBadGateway, "billing_unavailable", "invoice update failed")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoice_id")

	if err := h.invoices.Delete(r.Context(), invoiceID); err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			respondError(w, http.StatusNotFound, "invoice_not_found", "unknown invoice")
			return
		}
		log.Printf("invoice delete %s failed: %v", invoiceID, err)
		respondError(w, http.StatusBadGateway, "billing_unavailable", "invoice delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoice_id")

	var req PayInvoiceDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_amount", "amount must be positive")
		return
	}

	payment := domain.Payment{
		Amount: req.Amount,
		PaidAt: time.Now().UTC(),
	}
	if err := h.invoices.RegisterPayment(r.Context(), invoiceID, payment); err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			respondError(w, http.StatusNotFound, "invoice_not_found", "unknown invoice")
			return
		}
		log.Printf("invoice pay %s failed: %v", invoiceID, err)
		respondError(w, http.StatusBadGateway, "billing_unavailable", "payment registration failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": string(domain.InvoiceStatusPaid)})
}
