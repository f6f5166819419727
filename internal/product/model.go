package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Colors       []string        `json:"colors,omitempty"`
	Description  *string         `json:"description,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	GalleryPaths []string        `json:"gallery_paths,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type NewProductInput struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Colors       []string        `json:"colors"`
	Description  *string         `json:"description"`
	ImageURL     *string         `json:"image_url"`
	GalleryPaths []string        `json:"gallery_paths"`
}

type UpdateProductInput struct {
	ID           string           `json:"-"`
	Name         *string          `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Stock        *int             `json:"stock"`
	Colors       []string         `json:"colors"`
	Description  *string          `json:"description"`
	ImageURL     *string          `json:"image_url"`
	GalleryPaths []string         `json:"gallery_paths"`
}

type ListOptions struct {
	Search  *string
	InStock *bool
	Limit   int32
	Page    int32
}
