// Package handlers wires the HTTP surface to the domain services.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lunaria-app/lunaria/internal/api/dto"
	"github.com/lunaria-app/lunaria/internal/api/middleware"
	"github.com/lunaria-app/lunaria/internal/auth"
	"github.com/lunaria-app/lunaria/internal/config"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/utils"
	"github.com/lunaria-app/lunaria/internal/pkg/validator"
)

// AuthHandler handles registration, login, and password recovery
type AuthHandler struct {
	users     user.Service
	cfg       *config.Config
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	users user.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		users:     users,
		cfg:       cfg,
		logger:    log,
		validator: val,
	}
}

// Register handles account creation
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, cookie, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.setSessionCookie(w, cookie)
	utils.WriteJSON(w, http.StatusCreated, dto.AuthResponse{User: dto.NewUserDTO(u)})
}

// Login handles credential verification
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, cookie, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.setSessionCookie(w, cookie)
	utils.WriteJSON(w, http.StatusOK, dto.AuthResponse{User: dto.NewUserDTO(u)})
}

// Logout destroys the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if err := h.users.Logout(r.Context(), cookie.Value); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	h.clearSessionCookie(w)
	utils.WriteMessage(w, http.StatusOK, "Logged out")
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r)
	utils.WriteJSON(w, http.StatusOK, dto.AuthResponse{User: dto.NewUserDTO(u)})
}

// ForgotPassword starts password recovery. The response is the same whether
// or not the address has an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.users.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, "If that email has an account, a reset link is on its way")
}

// ResetPassword spends a reset token
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Password updated")
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.cfg.Auth.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Server.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Server.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})
}
