package api

import (
	"net/http"

	"speego-be/internal/logger"
	"speego-be/internal/metrics"
	"speego-be/internal/middleware"
)

// NewRouter wires every route behind the shared middleware chain:
// request ID, logging, CORS, optional auth, then rate limiting keyed by
// whoever auth identified.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)

	// Public catalog
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)

	// Public contact form
	mux.HandleFunc("POST /api/contact", h.SubmitContact)

	// Customer routes
	authed := func(fn http.HandlerFunc) http.Handler { return middleware.RequireAuth(fn) }
	mux.Handle("GET /api/cart", authed(h.GetCart))
	mux.Handle("POST /api/cart/items", authed(h.AddToCart))
	mux.Handle("PATCH /api/cart/items/{itemID}", authed(h.UpdateCartItem))
	mux.Handle("DELETE /api/cart/items/{itemID}", authed(h.RemoveCartItem))
	mux.Handle("DELETE /api/cart", authed(h.ClearCart))
	mux.Handle("POST /api/checkout", authed(h.Checkout))
	mux.Handle("GET /api/orders", authed(h.GetMyOrders))
	mux.Handle("GET /api/orders/{id}", authed(h.GetOrder))
	mux.Handle("GET /api/profile", authed(h.GetProfile))
	mux.Handle("PUT /api/profile", authed(h.SaveProfile))

	// Back office
	admin := func(fn http.HandlerFunc) http.Handler { return middleware.RequireAdmin(fn) }
	mux.Handle("POST /api/admin/products", admin(h.CreateProduct))
	mux.Handle("PATCH /api/admin/products/{id}", admin(h.UpdateProduct))
	mux.Handle("DELETE /api/admin/products/{id}", admin(h.DeleteProduct))
	mux.Handle("GET /api/admin/orders", admin(h.ListOrders))
	mux.Handle("PATCH /api/admin/orders/{id}/status", admin(h.UpdateOrderStatus))
	mux.Handle("GET /api/admin/messages", admin(h.ListContactMessages))
	mux.Handle("PATCH /api/admin/messages/{id}/read", admin(h.MarkContactRead))
	mux.Handle("GET /api/admin/metrics", admin(h.GetMetrics))

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(handler)
	handler = middleware.AuthMiddleware(handler)
	handler = middleware.CORS(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	return handler
}

// GetMetrics reports checkout funnel counters for the admin dashboard.
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]uint64{
		"checkout_attempts":  metrics.CheckoutAttempts.Load(),
		"checkout_completed": metrics.CheckoutCompleted.Load(),
		"checkout_rejected":  metrics.CheckoutRejected.Load(),
		"orders_cancelled":   metrics.OrdersCancelled.Load(),
	})
}
