package render

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"
)

// TempSourceSuffix is the extension of the temporary Mermaid source files the
// cache writes next to rendered artifacts.
const TempSourceSuffix = ".mmd"

// Cache is a content-addressed disk cache of rendered SVGs. The key is a
// digest of the diagram source, so an entry never needs invalidation and
// rendered artifacts are kept forever.
type Cache struct {
	dir      string
	renderer Renderer
	group    singleflight.Group
}

func NewCache(dir string, renderer Renderer) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &Cache{dir: dir, renderer: renderer}, nil
}

func (c *Cache) Dir() string {
	return c.dir
}

// ContentHash returns the cache key for a diagram source.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// RenderSVG returns the rendered SVG for the given diagram source, serving
// from disk when the content has been rendered before. Concurrent calls for
// the same uncached content share a single renderer invocation.
func (c *Cache) RenderSVG(ctx context.Context, content string) (string, error) {
	key := ContentHash(content)
	svgPath := filepath.Join(c.dir, key+".svg")

	if data, err := os.ReadFile(svgPath); err == nil {
		return string(data), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent flight may have completed while this caller waited
		if data, err := os.ReadFile(svgPath); err == nil {
			return string(data), nil
		}
		return c.renderToDisk(ctx, content, key, svgPath)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) renderToDisk(ctx context.Context, content, key, svgPath string) (string, error) {
	srcPath := filepath.Join(c.dir, key+TempSourceSuffix)
	if err := os.WriteFile(srcPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write diagram source: %w", err)
	}
	defer os.Remove(srcPath)

	if err := c.renderer.Render(ctx, srcPath, svgPath); err != nil {
		// Don't leave a partial artifact behind to be served as a hit
		os.Remove(svgPath)
		return "", err
	}

	data, err := os.ReadFile(svgPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rendered artifact: %w", err)
	}
	return string(data), nil
}
