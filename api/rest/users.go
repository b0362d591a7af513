package rest

import (
	"encoding/json"
	"net/http"

	"github.com/mermadic/mermadic/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Message string      `json:"message,omitempty"`
	User    models.User `json:"user"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusCreated, userResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.sendError(w, http.StatusBadRequest, "please provide username and password")
		return
	}

	user, sessionID, err := h.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.setSessionCookie(w, sessionID)
	h.sendResponse(w, http.StatusOK, userResponse{
		Message: "Login successful",
		User:    user,
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), h.sessionID(r)); err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.clearSessionCookie(w)
	h.sendResponse(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.CurrentUser(r.Context(), h.sessionID(r))
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusOK, userResponse{User: user})
}
