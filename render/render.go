package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Custom error types for clarity. Handlers use these to tell "the renderer
// is broken or missing" apart from "the diagram itself does not render".
var (
	ErrRendererUnavailable = errors.New("renderer unavailable")
	ErrRenderFailed        = errors.New("render failed")
)

// Renderer turns a Mermaid source file into an SVG file.
type Renderer interface {
	Render(ctx context.Context, inputPath, outputPath string) error
}

// MermaidCLI renders diagrams by invoking the mermaid-cli (mmdc) binary.
type MermaidCLI struct {
	binPath string
	timeout time.Duration
}

func NewMermaidCLI(binPath string, timeout time.Duration) *MermaidCLI {
	return &MermaidCLI{binPath: binPath, timeout: timeout}
}

func (m *MermaidCLI) Render(ctx context.Context, inputPath, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.binPath, "-i", inputPath, "-o", outputPath, "-b", "transparent")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: timed out after %s", ErrRendererUnavailable, m.timeout)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			// Binary missing or not executable
			return fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrRenderFailed, detail)
	}

	return nil
}
