package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mermadic/mermadic/models"
	"github.com/mermadic/mermadic/service"
)

type chartRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPublic bool   `json:"isPublic"`
}

type chartResponse struct {
	Message string       `json:"message,omitempty"`
	Chart   models.Chart `json:"chart"`
}

type chartListResponse struct {
	Charts []models.Chart `json:"charts"`
}

func chartID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) HandleCreateChart(w http.ResponseWriter, r *http.Request) {
	userID := h.viewerID(r)
	if userID == service.AnonymousViewer {
		h.sendError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chart, err := h.Service.CreateChart(r.Context(), userID, req.Title, req.Content, req.IsPublic)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusCreated, chartResponse{
		Message: "Chart created successfully",
		Chart:   chart,
	})
}

func (h *Handler) HandleListCharts(w http.ResponseWriter, r *http.Request) {
	userID := h.viewerID(r)
	if userID == service.AnonymousViewer {
		h.sendError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	charts, err := h.Service.ListCharts(r.Context(), userID)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusOK, chartListResponse{Charts: charts})
}

func (h *Handler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	id, ok := chartID(r)
	if !ok {
		h.sendError(w, http.StatusBadRequest, "invalid chart id")
		return
	}

	chart, err := h.Service.GetChart(r.Context(), h.viewerID(r), id)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusOK, chartResponse{Chart: chart})
}

func (h *Handler) HandleGetSharedChart(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareId")
	if shareID == "" {
		h.sendError(w, http.StatusBadRequest, "invalid share id")
		return
	}

	chart, err := h.Service.GetChartByShareID(r.Context(), h.viewerID(r), shareID)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusOK, chartResponse{Chart: chart})
}

func (h *Handler) HandleUpdateChart(w http.ResponseWriter, r *http.Request) {
	userID := h.viewerID(r)
	if userID == service.AnonymousViewer {
		h.sendError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, ok := chartID(r)
	if !ok {
		h.sendError(w, http.StatusBadRequest, "invalid chart id")
		return
	}

	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateChart(r.Context(), userID, id, req.Title, req.Content, req.IsPublic); err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusOK, map[string]string{"message": "Chart updated successfully"})
}

func (h *Handler) HandleDeleteChart(w http.ResponseWriter, r *http.Request) {
	userID := h.viewerID(r)
	if userID == service.AnonymousViewer {
		h.sendError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, ok := chartID(r)
	if !ok {
		h.sendError(w, http.StatusBadRequest, "invalid chart id")
		return
	}

	if err := h.Service.DeleteChart(r.Context(), userID, id); err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusOK, map[string]string{"message": "Chart deleted successfully"})
}
