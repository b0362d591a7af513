package service

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/mermadic/mermadic/render"
	"github.com/mermadic/mermadic/session"
	"github.com/mermadic/mermadic/store"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Errors the HTTP layer translates into status codes.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("not authorized")
	ErrRateLimited        = errors.New("too many render requests")
)

type Service struct {
	Users       store.UserStore
	Charts      store.ChartStore
	Sessions    session.Store
	RenderCache *render.Cache
	OAuthConfig *oauth2.Config
	StateSecret []byte

	renderLimiter *rate.Limiter
}

func NewService(
	users store.UserStore,
	charts store.ChartStore,
	sessions session.Store,
	renderCache *render.Cache,
	oauthConfig *oauth2.Config,
	stateSecret []byte,
	rendersPerSecond float64,
	renderBurst int,
) *Service {
	if oauthConfig != nil {
		addOauthEndpointAndScopes(oauthConfig)
	}

	return &Service{
		Users:         users,
		Charts:        charts,
		Sessions:      sessions,
		RenderCache:   renderCache,
		OAuthConfig:   oauthConfig,
		StateSecret:   stateSecret,
		renderLimiter: rate.NewLimiter(rate.Limit(rendersPerSecond), renderBurst),
	}
}
