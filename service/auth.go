package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/mermadic/mermadic/models"
	"github.com/mermadic/mermadic/store"
)

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

var googleScopes = []string{"openid", "email", "profile"}

func addOauthEndpointAndScopes(conf *oauth2.Config) {
	conf.Endpoint = googleEndpoint
	conf.Scopes = googleScopes
}

const stateValidity = 10 * time.Minute

// CreateStateToken mints the signed OAuth state parameter. The state carries
// no user identity, it only proves the redirect originated here.
func (s *Service) CreateStateToken() (string, error) {
	nonce, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"purpose": "oauth-state",
		"nonce":   nonce.String(),
		"exp":     time.Now().Add(stateValidity).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.StateSecret)
}

// VerifyStateToken rejects expired, forged, or repurposed state parameters.
func (s *Service) VerifyStateToken(state string) error {
	token, err := jwt.Parse(state, func(token *jwt.Token) (any, error) {
		return s.StateSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid state token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid state claims")
	}
	if purpose, _ := claims["purpose"].(string); purpose != "oauth-state" {
		return errors.New("state token has wrong purpose")
	}

	return nil
}

// GoogleAuthURL returns the Google consent-screen redirect target together
// with the freshly minted state embedded in it.
func (s *Service) GoogleAuthURL() (string, error) {
	if s.OAuthConfig == nil {
		return "", errors.New("google oauth is not configured")
	}

	state, err := s.CreateStateToken()
	if err != nil {
		return "", fmt.Errorf("state generation failed: %w", err)
	}
	return s.OAuthConfig.AuthCodeURL(state), nil
}

// GoogleCallback completes the authorization-code dance: verify state,
// exchange the code, fetch the OIDC profile, resolve it to a user, and open
// a session for that user.
func (s *Service) GoogleCallback(ctx context.Context, state, code string) (models.User, string, error) {
	if s.OAuthConfig == nil {
		return models.User{}, "", errors.New("google oauth is not configured")
	}

	if err := s.VerifyStateToken(state); err != nil {
		return models.User{}, "", fmt.Errorf("state verification failed: %w", err)
	}

	tok, err := s.OAuthConfig.Exchange(ctx, code)
	if err != nil {
		return models.User{}, "", fmt.Errorf("code exchange failed: %w", err)
	}

	profile, err := s.fetchGoogleProfile(ctx, tok)
	if err != nil {
		return models.User{}, "", fmt.Errorf("userinfo fetch failed: %w", err)
	}

	user, err := s.FindOrCreateGoogleUser(ctx, profile)
	if err != nil {
		return models.User{}, "", err
	}

	sessionID, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("session creation failed: %w", err)
	}

	return user, sessionID, nil
}

func (s *Service) fetchGoogleProfile(ctx context.Context, tok *oauth2.Token) (models.GoogleProfile, error) {
	client := s.OAuthConfig.Client(ctx, tok)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfoURL, nil)
	if err != nil {
		return models.GoogleProfile{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return models.GoogleProfile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GoogleProfile{}, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.GoogleProfile{}, err
	}

	var profile models.GoogleProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return models.GoogleProfile{}, err
	}
	return profile, nil
}

// FindOrCreateGoogleUser resolves an OIDC profile to a Mermadic user:
//  1. a user already carrying this Google id wins outright;
//  2. otherwise a user with the same email gets the Google identity linked
//     onto their existing account;
//  3. otherwise a new Google-only account is created.
//
// A profile without an email is a hard error.
func (s *Service) FindOrCreateGoogleUser(ctx context.Context, profile models.GoogleProfile) (models.User, error) {
	if profile.Email == "" {
		return models.User{}, fmt.Errorf("%w: email is required from Google profile", ErrInvalidInput)
	}
	if profile.Sub == "" {
		return models.User{}, fmt.Errorf("%w: subject is required from Google profile", ErrInvalidInput)
	}

	existing, err := s.Users.GetUserByGoogleID(ctx, profile.Sub)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, fmt.Errorf("google id lookup failed: %w", err)
	}

	byEmail, err := s.Users.GetUserByEmail(ctx, profile.Email)
	if err == nil {
		linked, err := s.Users.LinkGoogleAccount(ctx, byEmail.ID, profile.Sub, profile.Picture)
		if err != nil {
			return models.User{}, fmt.Errorf("account linking failed: %w", err)
		}
		logger.Info().Int64("user_id", linked.ID).Msg("Linked Google identity to existing account")
		return linked, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, fmt.Errorf("email lookup failed: %w", err)
	}

	username := profile.Name
	if username == "" {
		username = profile.Email
	}

	created, err := s.Users.CreateGoogleUser(ctx, username, profile.Email, profile.Sub, profile.Picture)
	if err != nil {
		return models.User{}, fmt.Errorf("google user creation failed: %w", err)
	}
	logger.Info().Int64("user_id", created.ID).Msg("Created new user from Google profile")
	return created, nil
}
