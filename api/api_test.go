package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mermadic/mermadic/api"
	"github.com/mermadic/mermadic/models"
	"github.com/mermadic/mermadic/render"
	rendermocks "github.com/mermadic/mermadic/render/mocks"
	"github.com/mermadic/mermadic/service"
	"github.com/mermadic/mermadic/session"
	sessionmocks "github.com/mermadic/mermadic/session/mocks"
	"github.com/mermadic/mermadic/store"
	storemocks "github.com/mermadic/mermadic/store/mocks"
)

type testEnv struct {
	mux      *http.ServeMux
	users    *storemocks.MockUserStore
	charts   *storemocks.MockChartStore
	sessions *sessionmocks.MockSessionStore
	renderer *rendermocks.MockRenderer
}

func setupAPI(t *testing.T) *testEnv {
	env := &testEnv{
		users:    new(storemocks.MockUserStore),
		charts:   new(storemocks.MockChartStore),
		sessions: new(sessionmocks.MockSessionStore),
		renderer: new(rendermocks.MockRenderer),
	}

	cache, err := render.NewCache(t.TempDir(), env.renderer)
	require.NoError(t, err)

	svc := service.NewService(env.users, env.charts, env.sessions, cache, nil, []byte("secret"), 100, 100)

	env.mux = http.NewServeMux()
	api.NewMermadicAPI(svc, true).RegisterRoutes(env.mux)
	return env
}

func (e *testEnv) do(method, path, body, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "mermadic_session", Value: sessionID})
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

// authenticated wires the session mock so the given cookie resolves to userID.
func (e *testEnv) authenticated(sessionID string, userID int64) {
	e.sessions.On("Get", mock.Anything, sessionID).Return(userID, nil)
}

func TestHealth(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRegister(t *testing.T) {
	env := setupAPI(t)

	created := models.User{ID: 1, Username: "alice", Email: "alice@example.com", AuthType: models.AuthTypeLocal}
	env.users.On("CreateUser", mock.Anything, "alice", "alice@example.com", mock.Anything).Return(created, nil)

	w := env.do(http.MethodPost, "/api/users/register",
		`{"username":"alice","email":"alice@example.com","password":"hunter2hunter2"}`, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Username)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := setupAPI(t)
	env.users.On("CreateUser", mock.Anything, "alice", "alice@example.com", mock.Anything).
		Return(models.User{}, store.ErrDuplicate)

	w := env.do(http.MethodPost, "/api/users/register",
		`{"username":"alice","email":"alice@example.com","password":"hunter2hunter2"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	env := setupAPI(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{ID: 1, Username: "alice", PasswordHash: string(hash)}
	env.users.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)
	env.sessions.On("Create", mock.Anything, int64(1)).Return("sid-123", nil)

	w := env.do(http.MethodPost, "/api/users/login", `{"username":"alice","password":"hunter2hunter2"}`, "")

	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "mermadic_session", cookies[0].Name)
	assert.Equal(t, "sid-123", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLogin_BadPassword(t *testing.T) {
	env := setupAPI(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	env.users.On("GetUserByUsername", mock.Anything, "alice").
		Return(models.User{ID: 1, PasswordHash: string(hash)}, nil)

	w := env.do(http.MethodPost, "/api/users/login", `{"username":"alice","password":"wrong-password"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_NoSession(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodGet, "/api/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_ExpiredSession(t *testing.T) {
	env := setupAPI(t)
	env.sessions.On("Get", mock.Anything, "stale-sid").Return(int64(0), session.ErrNoSession)

	w := env.do(http.MethodGet, "/api/users/me", "", "stale-sid")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateChart_RequiresAuth(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodPost, "/api/charts", `{"title":"Flow","content":"graph TD; A-->B"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.charts.AssertNotCalled(t, "CreateChart")
}

func TestCreateChart(t *testing.T) {
	env := setupAPI(t)
	env.authenticated("sid-1", 7)

	created := models.Chart{ID: 3, UserID: 7, Title: "Flow", Content: "graph TD; A-->B", ShareID: "abcdef0123456789"}
	env.charts.On("CreateChart", mock.Anything, int64(7), "Flow", "graph TD; A-->B", true).Return(created, nil)

	w := env.do(http.MethodPost, "/api/charts",
		`{"title":"Flow","content":"graph TD; A-->B","isPublic":true}`, "sid-1")

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Chart models.Chart `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Chart.ID)
	assert.Len(t, resp.Chart.ShareID, 16)
}

func TestGetChart_PrivateDeniedToStranger(t *testing.T) {
	env := setupAPI(t)
	env.authenticated("sid-2", 99)

	private := models.Chart{ID: 3, UserID: 7, Public: false}
	env.charts.On("GetChartByID", mock.Anything, int64(3)).Return(private, nil)

	w := env.do(http.MethodGet, "/api/charts/3", "", "sid-2")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetChart_NotFound(t *testing.T) {
	env := setupAPI(t)
	env.authenticated("sid-1", 7)
	env.charts.On("GetChartByID", mock.Anything, int64(42)).Return(models.Chart{}, store.ErrNotFound)

	w := env.do(http.MethodGet, "/api/charts/42", "", "sid-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSharedChart_PublicVisibleAnonymously(t *testing.T) {
	env := setupAPI(t)

	public := models.Chart{ID: 3, UserID: 7, Title: "Flow", Public: true, ShareID: "abcdef0123456789"}
	env.charts.On("GetChartByShareID", mock.Anything, "abcdef0123456789").Return(public, nil)

	w := env.do(http.MethodGet, "/api/charts/share/abcdef0123456789", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteChart_OwnerOnly(t *testing.T) {
	env := setupAPI(t)
	env.authenticated("sid-2", 99)

	chart := models.Chart{ID: 3, UserID: 7}
	env.charts.On("GetChartByID", mock.Anything, int64(3)).Return(chart, nil)

	w := env.do(http.MethodDelete, "/api/charts/3", "", "sid-2")
	assert.Equal(t, http.StatusForbidden, w.Code)
	env.charts.AssertNotCalled(t, "DeleteChart")
}

func TestRenderSVG(t *testing.T) {
	env := setupAPI(t)
	env.renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_ = os.WriteFile(args.String(2), []byte("<svg>ok</svg>"), 0o644)
		}).
		Return(nil)

	w := env.do(http.MethodPost, "/api/render/svg", `{"content":"graph TD; A-->B"}`, "")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SVG string `json:"svg"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "<svg>ok</svg>", resp.SVG)
}

func TestRenderSVG_FallbackOnFailure(t *testing.T) {
	env := setupAPI(t)
	env.renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).
		Return(render.ErrRenderFailed)

	w := env.do(http.MethodPost, "/api/render/svg", `{"content":"graph TD; A-->B"}`, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Fallback bool `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Fallback, "clients fall back to browser-side rendering")
}

func TestChartPage(t *testing.T) {
	env := setupAPI(t)

	public := models.Chart{ID: 3, UserID: 7, Title: "Flow", Content: "graph TD; A-->B", Public: true}
	env.charts.On("GetChartByID", mock.Anything, int64(3)).Return(public, nil)

	w := env.do(http.MethodGet, "/api/render/page/3", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "mermaid.initialize")
}
