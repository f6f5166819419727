package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNameRequired    = errors.New("name cannot be empty")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrNegativeStock   = errors.New("stock cannot be negative")
)
