package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mermadic/mermadic/render"
	"github.com/mermadic/mermadic/service"
	"github.com/mermadic/mermadic/store"
)

type renderRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

type renderSVGResponse struct {
	SVG string `json:"svg"`
}

type renderErrorResponse struct {
	Message  string `json:"message"`
	Error    string `json:"error"`
	Fallback bool   `json:"fallback"`
}

func (h *Handler) HandleRenderSVG(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svg, err := h.Service.RenderSVG(r.Context(), req.Content)
	if err != nil {
		// Renderer failures carry a fallback marker so the client can switch
		// to browser-side rendering.
		if errors.Is(err, render.ErrRenderFailed) || errors.Is(err, render.ErrRendererUnavailable) {
			h.sendResponse(w, http.StatusInternalServerError, renderErrorResponse{
				Message:  "Error rendering diagram",
				Error:    err.Error(),
				Fallback: true,
			})
			return
		}
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusOK, renderSVGResponse{SVG: svg})
}

type renderHTMLResponse struct {
	HTML string `json:"html"`
}

func (h *Handler) HandleRenderHTML(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	html, err := h.Service.RenderHTML(req.Content, req.Title)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendResponse(w, http.StatusOK, renderHTMLResponse{HTML: html})
}

// HandleChartPage serves a stored chart as a standalone HTML page.
func (h *Handler) HandleChartPage(w http.ResponseWriter, r *http.Request) {
	id, ok := chartID(r)
	if !ok {
		http.Error(w, "invalid chart id", http.StatusBadRequest)
		return
	}

	page, err := h.Service.RenderChartPage(r.Context(), h.viewerID(r), id)
	if err != nil {
		// This endpoint is navigated to directly, so errors are plain text
		switch {
		case errors.Is(err, service.ErrForbidden):
			http.Error(w, "Not authorized to view this chart", http.StatusForbidden)
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "Chart not found", http.StatusNotFound)
		default:
			logger.Error().Err(err).Msg("Failed to render chart page")
			http.Error(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}
