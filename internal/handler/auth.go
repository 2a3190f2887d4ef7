package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/suntrail/agency-server/internal/errors"
	"github.com/suntrail/agency-server/internal/middleware"
	"github.com/suntrail/agency-server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	session     *middleware.SessionMiddleware
}

func NewAuthHandler(authService *service.AuthService, session *middleware.SessionMiddleware) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		session:     session,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(h.session.Handler).Get("/session", h.Session)

	return r
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
			return
		}
		log.Error().Err(err).Msg("admin login error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}

	h.session.SetCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout always clears the client cookie: a store failure must not leave the
// browser looking logged in.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.session.ReadCookie(r)
	if token != "" {
		if err := h.authService.Logout(r.Context(), token); err != nil {
			log.Error().Err(err).Msg("admin logout: session delete failed")
		}
	}

	h.session.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"expiresAt":     session.ExpiresAt,
	})
}
