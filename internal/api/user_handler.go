package api

import (
	"net/http"

	"speego-be/internal/user"
	"speego-be/internal/utils"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func newAuthResponse(token string, u user.User) authResponse {
	var resp authResponse
	resp.Token = token
	resp.User.ID = u.ID
	resp.User.Email = u.Email
	resp.User.Role = string(u.Role)
	return resp
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, u, err := h.UserSvc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newAuthResponse(token, u))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, u, err := h.UserSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newAuthResponse(token, u))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	profile, err := h.UserSvc.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.UserSvc.SaveProfile(r.Context(), user.UpsertProfileParams{
		UserID:   userID,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
