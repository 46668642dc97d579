package handlers

import (
	"net/http"

	"sendit/internal/domain"
	"sendit/internal/logx"
)

// AuthHandler serves signup and login.
type AuthHandler struct {
	users  userUsecase
	logger logx.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users userUsecase, logger logx.Logger) *AuthHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AuthHandler{users: users, logger: logger}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	s, err := h.users.Signup(r.Context(), req.toModel())
	if err != nil {
		fail(h.logger, w, r, err, "user not found")
		return
	}
	writeData(h.logger, w, r, http.StatusCreated, sessionToResponse(s))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	s, err := h.users.Login(r.Context(), domain.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		fail(h.logger, w, r, err, "user not found")
		return
	}
	writeData(h.logger, w, r, http.StatusOK, sessionToResponse(s))
}
