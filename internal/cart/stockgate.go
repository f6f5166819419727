package cart

// Clamp applies the advisory stock gate: the requested quantity is forced
// into [1, stock] against a cached stock figure. A nil stock means no figure
// is known and the request passes through (floored at 1). The cached figure
// is a point-in-time snapshot; the authoritative check is the conditional
// decrement inside the checkout transaction.
func Clamp(requested int, stock *int) (int, bool) {
	qty := requested
	if qty < 1 {
		qty = 1
	}

	if stock == nil {
		return qty, false
	}

	if qty > *stock && *stock >= 1 {
		return *stock, true
	}

	return qty, false
}

// OutOfStock reports whether a cached stock figure forbids adding at all.
func OutOfStock(stock *int) bool {
	return stock != nil && *stock < 1
}
