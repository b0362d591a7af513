package service_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mermadic/mermadic/models"
	"github.com/mermadic/mermadic/render"
	rendermocks "github.com/mermadic/mermadic/render/mocks"
	"github.com/mermadic/mermadic/service"
	sessionmocks "github.com/mermadic/mermadic/session/mocks"
	storemocks "github.com/mermadic/mermadic/store/mocks"
)

const sampleDiagram = "graph TD\n  A[Start] --> B[End]"

// onRender wires the mock so a "successful" render actually produces an
// output file, matching what mmdc would do.
func onRender(m *rendermocks.MockRenderer, svg string) *mock.Call {
	return m.On("Render", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_ = os.WriteFile(args.String(2), []byte(svg), 0o644)
		}).
		Return(nil)
}

func TestRenderSVG_Success(t *testing.T) {
	svc, _, _, _, mockRenderer := setupService(t)
	onRender(mockRenderer, "<svg>diagram</svg>")

	svg, err := svc.RenderSVG(context.Background(), sampleDiagram)
	assert.NoError(t, err)
	assert.Equal(t, "<svg>diagram</svg>", svg)
}

func TestRenderSVG_EmptyContent(t *testing.T) {
	svc, _, _, _, mockRenderer := setupService(t)

	_, err := svc.RenderSVG(context.Background(), "   \n ")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	mockRenderer.AssertNotCalled(t, "Render")
}

func TestRenderSVG_CacheReuse(t *testing.T) {
	svc, _, _, _, mockRenderer := setupService(t)
	onRender(mockRenderer, "<svg>cached</svg>")

	for i := 0; i < 3; i++ {
		svg, err := svc.RenderSVG(context.Background(), sampleDiagram)
		require.NoError(t, err)
		assert.Equal(t, "<svg>cached</svg>", svg)
	}

	mockRenderer.AssertNumberOfCalls(t, "Render", 1)
}

func TestRenderSVG_RateLimited(t *testing.T) {
	mockRenderer := new(rendermocks.MockRenderer)
	onRender(mockRenderer, "<svg/>")

	cache, err := render.NewCache(t.TempDir(), mockRenderer)
	require.NoError(t, err)

	// One token, no refill to speak of within the test window.
	svc := service.NewService(
		new(storemocks.MockUserStore),
		new(storemocks.MockChartStore),
		new(sessionmocks.MockSessionStore),
		cache, nil, []byte("secret"), 0.001, 1,
	)

	_, err = svc.RenderSVG(context.Background(), sampleDiagram)
	require.NoError(t, err)

	_, err = svc.RenderSVG(context.Background(), sampleDiagram)
	assert.ErrorIs(t, err, service.ErrRateLimited)
}

func TestRenderSVG_RendererFailure(t *testing.T) {
	svc, _, _, _, mockRenderer := setupService(t)
	mockRenderer.On("Render", mock.Anything, mock.Anything, mock.Anything).
		Return(render.ErrRenderFailed)

	_, err := svc.RenderSVG(context.Background(), sampleDiagram)
	assert.ErrorIs(t, err, render.ErrRenderFailed)
}

func TestRenderHTML_EmbedsContentAndTitle(t *testing.T) {
	svc, _, _, _, _ := setupService(t)

	html, err := svc.RenderHTML(sampleDiagram, "My Diagram")
	assert.NoError(t, err)
	assert.Contains(t, html, "<title>My Diagram - Mermadic</title>")
	assert.Contains(t, html, "graph TD")
	assert.Contains(t, html, "mermaid.initialize")
}

func TestRenderHTML_EscapesTitle(t *testing.T) {
	svc, _, _, _, _ := setupService(t)

	html, err := svc.RenderHTML(sampleDiagram, `<script>alert(1)</script>`)
	assert.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderHTML_EmptyContent(t *testing.T) {
	svc, _, _, _, _ := setupService(t)

	_, err := svc.RenderHTML("", "Title")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestRenderChartPage_AppliesVisibility(t *testing.T) {
	svc, _, mockCharts, _, _ := setupService(t)
	ctx := context.Background()

	private := models.Chart{ID: 1, UserID: 1, Title: "Secret", Content: sampleDiagram, Public: false}
	mockCharts.On("GetChartByID", ctx, int64(1)).Return(private, nil)

	_, err := svc.RenderChartPage(ctx, int64(2), 1)
	assert.ErrorIs(t, err, service.ErrForbidden)

	html, err := svc.RenderChartPage(ctx, int64(1), 1)
	assert.NoError(t, err)
	assert.Contains(t, html, "Secret")
}
