package api

import (
	"net/http"

	"speego-be/internal/order"
	"speego-be/internal/user"
	"speego-be/internal/utils"
)

type updateStatusRequest struct {
	Status order.OrderStatus `json:"status"`
}

// Checkout places an order from the caller's cart. Clients pass an
// X-Checkout-Key header so retries cannot create duplicate orders; without
// one a fresh key is generated server-side.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	o, err := h.OrderSvc.PlaceOrder(r.Context(), userID, r.Header.Get("X-Checkout-Key"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

// GetMyOrders lists the caller's order history, newest first.
func (h *Handler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	email := utils.GetUserEmailFromContext(r.Context())

	orders, err := h.OrderSvc.GetMyOrders(r.Context(), email)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	isAdmin := utils.GetUserRoleFromContext(r.Context()) == string(user.RoleAdmin)

	o, err := h.OrderSvc.GetOrderDetail(r.Context(), userID, r.PathValue("id"), isAdmin)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// ListOrders is the back-office view across all customers. Supports
// ?status=, ?limit= and ?page=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var opts order.ListOptions
	if s := q.Get("status"); s != "" {
		status := order.OrderStatus(s)
		opts.Status = &status
	}
	opts.Limit = utils.ToInt32(q.Get("limit"))
	opts.Page = utils.ToInt32(q.Get("page"))

	orders, err := h.OrderSvc.GetOrders(r.Context(), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.OrderSvc.UpdateOrderStatus(r.Context(), r.PathValue("id"), req.Status); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}
