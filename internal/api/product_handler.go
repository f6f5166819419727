package api

import (
	"net/http"
	"strconv"

	"speego-be/internal/product"
	"speego-be/internal/utils"
)

// ListProducts is the public catalog listing. Supports ?search=, ?in_stock=,
// ?limit= and ?page=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var opts product.ListOptions
	if s := q.Get("search"); s != "" {
		opts.Search = utils.StrPtr(s)
	}
	if v := q.Get("in_stock"); v != "" {
		inStock := v == "true" || v == "1"
		opts.InStock = &inStock
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = int32(v)
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		opts.Page = int32(v)
	}

	products, err := h.ProductSvc.GetList(r.Context(), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.ProductSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input product.NewProductInput
	if !decodeJSON(w, r, &input) {
		return
	}

	p, err := h.ProductSvc.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input product.UpdateProductInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ID = r.PathValue("id")

	p, err := h.ProductSvc.Update(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.ProductSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
