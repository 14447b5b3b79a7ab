package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth     *AuthHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Products *ProductHandler
	Users    *UserHandler
	Orders   *OrderHandler
	Invoices *InvoiceHandler
}

// NewRouter wires the full HTTP surface. Every /api/v1 route passes
// through the session middleware so handlers can assume a session id.
func NewRouter(sessions SessionStore, h Handlers, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(sessions))

		r.Post("/login", h.Auth.Login)
		r.Get("/logout", h.Auth.Logout)
		r.Get("/session", h.Auth.Session)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
		})

		r.Post("/checkout", h.Checkout.Checkout)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Post("/", h.Products.Create)
			r.Get("/{product_id}", h.Products.Get)
			r.Put("/{product_id}", h.Products.Update)
			r.Delete("/{product_id}", h.Products.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/{user_id}", h.Users.Get)
			r.Put("/{user_id}", h.Users.Update)
			r.Delete("/{user_id}", h.Users.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Get("/{order_id}", h.Orders.Get)
			r.Put("/{order_id}/status", h.Orders.UpdateStatus)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.Invoices.List)
			r.Post("/", h.Invoices.Create)
			r.Get("/{invoice_id}", h.Invoices.Get)
			r.Put("/{invoice_id}", h.Invoices.Update)
			r.Delete("/{invoice_id}", h.Invoices.Delete)
			r.Post("/{invoice_id}/pay", h.Invoices.Pay)
		})
	})

	return r
}
