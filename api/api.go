package api

import (
	"net/http"

	"github.com/mermadic/mermadic/api/rest"
	"github.com/mermadic/mermadic/service"
)

type MermadicAPI struct {
	restHandler *rest.Handler
}

func NewMermadicAPI(svc *service.Service, devMode bool) *MermadicAPI {
	return &MermadicAPI{
		restHandler: rest.NewHandler(svc, devMode),
	}
}

func (a *MermadicAPI) RegisterRoutes(mux *http.ServeMux) {
	// Health check endpoint (no auth required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/users/register", a.restHandler.HandleRegister)
	mux.HandleFunc("POST /api/users/login", a.restHandler.HandleLogin)
	mux.HandleFunc("POST /api/users/logout", a.restHandler.HandleLogout)
	mux.HandleFunc("GET /api/users/me", a.restHandler.HandleMe)

	mux.HandleFunc("GET /api/auth/google", a.restHandler.HandleGoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", a.restHandler.HandleGoogleCallback)

	mux.HandleFunc("POST /api/charts", a.restHandler.HandleCreateChart)
	mux.HandleFunc("GET /api/charts", a.restHandler.HandleListCharts)
	mux.HandleFunc("GET /api/charts/{id}", a.restHandler.HandleGetChart)
	mux.HandleFunc("GET /api/charts/share/{shareId}", a.restHandler.HandleGetSharedChart)
	mux.HandleFunc("PUT /api/charts/{id}", a.restHandler.HandleUpdateChart)
	mux.HandleFunc("DELETE /api/charts/{id}", a.restHandler.HandleDeleteChart)

	mux.HandleFunc("POST /api/render/svg", a.restHandler.HandleRenderSVG)
	mux.HandleFunc("POST /api/render/html", a.restHandler.HandleRenderHTML)
	mux.HandleFunc("GET /api/render/page/{id}", a.restHandler.HandleChartPage)
}
