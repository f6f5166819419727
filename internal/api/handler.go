package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"speego-be/internal/cart"
	"speego-be/internal/contact"
	"speego-be/internal/logger"
	"speego-be/internal/order"
	"speego-be/internal/product"
	"speego-be/internal/user"

	"go.uber.org/zap"
)

// Handler bundles the services behind the REST surface.
type Handler struct {
	ProductSvc product.Service
	CartSvc    cart.Service
	OrderSvc   order.Service
	UserSvc    user.Service
	ContactSvc contact.Service
}

func NewHandler(
	productSvc product.Service,
	cartSvc cart.Service,
	orderSvc order.Service,
	userSvc user.Service,
	contactSvc contact.Service,
) *Handler {
	return &Handler{
		ProductSvc: productSvc,
		CartSvc:    cartSvc,
		OrderSvc:   orderSvc,
		UserSvc:    userSvc,
		ContactSvc: contactSvc,
	}
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// respondError maps domain errors onto HTTP responses. Gate errors carry a
// redirect hint so the storefront knows where to send the customer.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var oos *order.OutOfStockError
	if errors.As(err, &oos) {
		respondJSON(w, http.StatusConflict, map[string]any{
			"error": oos.Error(),
			"items": oos.Items,
		})
		return
	}

	var conflict *order.StockConflictError
	if errors.As(err, &conflict) {
		respondJSON(w, http.StatusConflict, map[string]string{"error": conflict.Error()})
		return
	}

	code := http.StatusInternalServerError
	body := map[string]string{"error": err.Error()}

	switch {
	case errors.Is(err, user.ErrUserNotAuthenticated),
		errors.Is(err, cart.ErrUserNotAuthenticated),
		errors.Is(err, user.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	case errors.Is(err, user.ErrProfileIncomplete):
		code = http.StatusConflict
	case errors.Is(err, order.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrProfileNotFound),
		errors.Is(err, contact.ErrMessageNotFound):
		code = http.StatusNotFound
	case errors.Is(err, user.ErrEmailExists):
		code = http.StatusConflict
	case errors.Is(err, cart.ErrInsufficientStock):
		code = http.StatusConflict
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrCartEmpty),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, product.ErrNameRequired),
		errors.Is(err, product.ErrNegativePrice),
		errors.Is(err, product.ErrNegativeStock),
		errors.Is(err, user.ErrProfileFields),
		errors.Is(err, contact.ErrNameRequired),
		errors.Is(err, contact.ErrPhoneRequired),
		errors.Is(err, contact.ErrMessageRequired):
		code = http.StatusBadRequest
	}

	if errors.Is(err, user.ErrUserNotAuthenticated) || errors.Is(err, user.ErrProfileIncomplete) {
		body["redirect"] = user.RedirectFor(err)
	}

	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed", zap.Error(err))
		body["error"] = "internal server error"
	}

	respondJSON(w, code, body)
}
