package http

import (
	"net/http"

	"ugeco-backoffice/internal/service"

	"github.com/gorilla/mux"
)

type signInRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type setPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthHandler struct {
	authSvc   service.AuthService
	validator *Validator
}

func NewAuthHandler(authSvc service.AuthService, validator *Validator) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, validator: validator}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := h.validator.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.authSvc.SignIn(r.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := h.validator.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authSvc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password reset email sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSetPassword(w, r)
	if !ok {
		return
	}
	if err := h.authSvc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password has been reset"})
}

func (h *AuthHandler) InitializePassword(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSetPassword(w, r)
	if !ok {
		return
	}
	if err := h.authSvc.InitializePassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password has been set"})
}

// decodeSetPassword accepts the token in the path or in the body.
func (h *AuthHandler) decodeSetPassword(w http.ResponseWriter, r *http.Request) (setPasswordRequest, bool) {
	var req setPasswordRequest
	if err := h.validator.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return req, false
	}
	if token := mux.Vars(r)["token"]; token != "" {
		req.Token = token
	}
	return req, true
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	user, err := h.authSvc.Me(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
