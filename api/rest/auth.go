package rest

import (
	"net/http"
	"net/url"
)

const (
	loginErrorPage = "/login.html"
	dashboardPage  = "/dashboard.html"
)

func redirectToLoginError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, loginErrorPage+"?error="+url.QueryEscape(reason), http.StatusFound)
}

func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.Service.GoogleAuthURL()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build Google auth URL")
		redirectToLoginError(w, r, "google-auth-unavailable")
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Google reports consent-screen denials via an error query parameter
	if oauthErr := query.Get("error"); oauthErr != "" {
		redirectToLoginError(w, r, oauthErr)
		return
	}

	_, sessionID, err := h.Service.GoogleCallback(r.Context(), query.Get("state"), query.Get("code"))
	if err != nil {
		logger.Error().Err(err).Msg("Google callback failed")
		redirectToLoginError(w, r, "google-auth-failed")
		return
	}

	h.setSessionCookie(w, sessionID)
	http.Redirect(w, r, dashboardPage, http.StatusFound)
}
