package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"singularshift/internal/model"
	"singularshift/internal/service"
	"singularshift/internal/transport/rest/middleware"
)

// Messages shown by the sign-in and sign-up forms
const (
	msgUserExists     = "User already exists. Please sign in."
	msgAccountCreated = "Account created successfully. Please sign in."
	msgSignedIn       = "Signed in."
	msgBadCredentials = "Invalid email or password."
	msgSignedOut      = "Signed out."
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc      *service.AuthService
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, secureCookie: secureCookie, logger: logger}
}

// SignInResponse is returned on successful sign-in
type SignInResponse struct {
	model.AuthResponse
	User    *model.User `json:"user"`
	IsAdmin bool        `json:"isAdmin"`
}

// SignUp handles POST /api/auth/sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req model.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := h.authSvc.SignUp(r.Context(), &req)
	var verr *service.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, model.AuthResponse{Success: true, Message: msgAccountCreated})
	case errors.Is(err, service.ErrUserExists):
		writeJSON(w, http.StatusConflict, model.AuthResponse{Success: false, Message: msgUserExists})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, model.AuthResponse{Success: false, Message: verr.Error()})
	default:
		h.logger.Error("sign-up failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create an account")
	}
}

// SignIn handles POST /api/auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req model.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.authSvc.SignIn(r.Context(), &req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, model.AuthResponse{Success: false, Message: msgBadCredentials})
		return
	}
	if err != nil {
		h.logger.Error("sign-in failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to log into account. Please try again.")
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(service.SessionDuration.Seconds())))
	writeJSON(w, http.StatusOK, SignInResponse{
		AuthResponse: model.AuthResponse{Success: true, Message: msgSignedIn},
		User:         user,
		IsAdmin:      h.authSvc.IsAdmin(user.Email),
	})
}

// SignOut handles POST /api/auth/sign-out
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.authSvc.SignOut(r.Context(), middleware.GetClaims(r.Context())); err != nil {
		h.logger.Warn("failed to revoke token", zap.Error(err))
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, model.AuthResponse{Success: true, Message: msgSignedOut})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authSvc.CurrentUser(r.Context(), middleware.GetClaims(r.Context()))
	if err != nil {
		h.logger.Error("failed to load current user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"isAdmin": h.authSvc.IsAdmin(user.Email),
	})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     service.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
