package api

import (
	"net/http"

	"speego-be/internal/cart"
	"speego-be/internal/utils"
)

type addToCartRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Color     *string `json:"color"`
	ImagePath *string `json:"image_path"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	items, err := h.CartSvc.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req addToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.CartSvc.AddToCart(r.Context(), cart.AddToCartParams{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Color:     req.Color,
		ImagePath: req.ImagePath,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req updateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.CartSvc.UpdateQuantity(r.Context(), userID, r.PathValue("itemID"), req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.CartSvc.RemoveFromCart(r.Context(), userID, r.PathValue("itemID")); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.CartSvc.ClearCart(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
