package render_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mermadic/mermadic/render"
)

// countingRenderer is a fake renderer that wraps the input source in svg tags
// and records how many times it was invoked.
type countingRenderer struct {
	mu    sync.Mutex
	calls int
	err   error
	delay time.Duration
}

func (r *countingRenderer) Render(ctx context.Context, inputPath, outputPath string) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.err != nil {
		return r.err
	}

	src, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte("<svg>"+string(src)+"</svg>"), 0o644)
}

func (r *countingRenderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestContentHash_Deterministic(t *testing.T) {
	h1 := render.ContentHash("graph TD; A-->B")
	h2 := render.ContentHash("graph TD; A-->B")
	h3 := render.ContentHash("graph TD; A-->C")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestRenderSVG_CacheHit(t *testing.T) {
	renderer := &countingRenderer{}
	cache, err := render.NewCache(t.TempDir(), renderer)
	require.NoError(t, err)

	ctx := context.Background()
	content := "graph TD; A-->B"

	first, err := cache.RenderSVG(ctx, content)
	require.NoError(t, err)
	assert.Contains(t, first, content)

	second, err := cache.RenderSVG(ctx, content)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, renderer.callCount(), "second call must be served from cache")
}

func TestRenderSVG_DistinctContentRendersSeparately(t *testing.T) {
	renderer := &countingRenderer{}
	cache, err := render.NewCache(t.TempDir(), renderer)
	require.NoError(t, err)

	ctx := context.Background()

	svgA, err := cache.RenderSVG(ctx, "graph TD; A-->B")
	require.NoError(t, err)
	svgB, err := cache.RenderSVG(ctx, "sequenceDiagram; A->>B: hi")
	require.NoError(t, err)

	assert.NotEqual(t, svgA, svgB)
	assert.Equal(t, 2, renderer.callCount())
}

func TestRenderSVG_ConcurrentRequestsShareOneRender(t *testing.T) {
	renderer := &countingRenderer{delay: 100 * time.Millisecond}
	cache, err := render.NewCache(t.TempDir(), renderer)
	require.NoError(t, err)

	ctx := context.Background()
	content := "graph TD; A-->B"

	const callers = 8
	results := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.RenderSVG(ctx, content)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
	assert.Equal(t, 1, renderer.callCount(), "concurrent identical requests must share one render")
}

func TestRenderSVG_RendererFailure(t *testing.T) {
	renderer := &countingRenderer{err: render.ErrRenderFailed}
	dir := t.TempDir()
	cache, err := render.NewCache(dir, renderer)
	require.NoError(t, err)

	ctx := context.Background()
	content := "not a diagram"

	_, err = cache.RenderSVG(ctx, content)
	assert.ErrorIs(t, err, render.ErrRenderFailed)

	// No artifact and no temp source may survive a failed render
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)

	// A later successful render of the same content is not poisoned
	renderer.err = nil
	svg, err := cache.RenderSVG(ctx, content)
	require.NoError(t, err)
	assert.Contains(t, svg, content)
}

func TestRenderSVG_CleansUpTempSource(t *testing.T) {
	renderer := &countingRenderer{}
	dir := t.TempDir()
	cache, err := render.NewCache(dir, renderer)
	require.NoError(t, err)

	_, err = cache.RenderSVG(context.Background(), "graph TD; A-->B")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, render.TempSourceSuffix, filepath.Ext(e.Name()))
	}
}

func TestMermaidCLI_MissingBinary(t *testing.T) {
	cli := render.NewMermaidCLI("definitely-not-a-real-binary", time.Second)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.mmd")
	require.NoError(t, os.WriteFile(in, []byte("graph TD; A-->B"), 0o644))

	err := cli.Render(context.Background(), in, filepath.Join(dir, "out.svg"))
	assert.ErrorIs(t, err, render.ErrRendererUnavailable)
}

func TestMermaidCLI_ErrorsAreDistinguishable(t *testing.T) {
	assert.False(t, errors.Is(render.ErrRenderFailed, render.ErrRendererUnavailable))
}
