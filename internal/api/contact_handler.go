package api

import (
	"net/http"

	"speego-be/internal/contact"
)

func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var params contact.CreateMessageParams
	if !decodeJSON(w, r, &params) {
		return
	}

	m, err := h.ContactSvc.Submit(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, m)
}

func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.ContactSvc.ListMessages(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *Handler) MarkContactRead(w http.ResponseWriter, r *http.Request) {
	if err := h.ContactSvc.MarkRead(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
