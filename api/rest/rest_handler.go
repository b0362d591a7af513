package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/mermadic/mermadic/service"
	"github.com/mermadic/mermadic/session"
	"github.com/mermadic/mermadic/store"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const sessionCookieName = "mermadic_session"

type Handler struct {
	Service *service.Service
	devMode bool
}

func NewHandler(svc *service.Service, devMode bool) *Handler {
	return &Handler{Service: svc, devMode: devMode}
}

func (h *Handler) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// viewerID resolves the request's session cookie to a user id;
// service.AnonymousViewer when there is no valid session.
func (h *Handler) viewerID(r *http.Request) int64 {
	sid := h.sessionID(r)
	if sid == "" {
		return service.AnonymousViewer
	}
	userID, err := h.Service.SessionUserID(r.Context(), sid)
	if err != nil {
		return service.AnonymousViewer
	}
	return userID
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !h.devMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !h.devMode,
		MaxAge:   -1,
	})
}

func (h *Handler) sendResponse(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendResponse(w, status, map[string]string{"message": message})
}

// sendServiceError maps the service/store error taxonomy onto status codes.
// This is the only place that translation happens.
func (h *Handler) sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.sendError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		h.sendError(w, http.StatusBadRequest, "username or email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.sendError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, session.ErrNoSession):
		h.sendError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, service.ErrForbidden):
		h.sendError(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, store.ErrNotFound):
		h.sendError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrRateLimited):
		h.sendError(w, http.StatusTooManyRequests, "too many requests")
	default:
		logger.Error().Err(err).Msg("Internal server error")
		h.sendError(w, http.StatusInternalServerError, "server error")
	}
}
