package service

import (
	"context"
	"fmt"
	"html/template"
	"strings"
)

// RenderSVG resolves diagram source to SVG through the content-addressed
// cache. Renders are rate limited because a cache miss costs an external
// process; cache hits still consume a token to keep the policy simple.
func (s *Service) RenderSVG(ctx context.Context, content string) (string, error) {
	if err := ValidateDiagramContent(content); err != nil {
		return "", err
	}

	if !s.renderLimiter.Allow() {
		return "", ErrRateLimited
	}

	svg, err := s.RenderCache.RenderSVG(ctx, content)
	if err != nil {
		logger.Error().Err(err).Msg("Error rendering diagram")
		return "", err
	}
	return svg, nil
}

var pageTemplate = template.Must(template.New("diagram").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{if .Title}}{{.Title}} - {{end}}Mermadic</title>
  <link rel="stylesheet" href="/css/diagram.css">
</head>
<body>
  <div class="container">
    {{if .Title}}<h1>{{.Title}}</h1>{{end}}
    <div class="zoom-controls">
      <button class="zoom-out" title="Zoom Out">-</button>
      <button class="zoom-reset" title="Reset Zoom">&#8634;</button>
      <button class="zoom-in" title="Zoom In">+</button>
    </div>
    <div id="mermaid-container" class="mermaid-container">
      <div id="mermaid-content" class="mermaid">
{{.Content}}
      </div>
    </div>
  </div>
  <script src="/js/mermaid.min.js"></script>
  <script src="/js/zoom-controls.js"></script>
  <script>
    mermaid.initialize({
      startOnLoad: true,
      theme: 'default',
      securityLevel: 'loose',
      flowchart: { useMaxWidth: true, htmlLabels: true, curve: 'linear' }
    });
  </script>
</body>
</html>
`))

type pageData struct {
	Title   string
	Content string
}

// RenderHTML wraps diagram source in a standalone HTML document that renders
// client-side. No caching: the document is cheap to build and the heavy
// lifting happens in the browser.
func (s *Service) RenderHTML(content, title string) (string, error) {
	if err := ValidateDiagramContent(content); err != nil {
		return "", err
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, pageData{Title: title, Content: content}); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return b.String(), nil
}

// RenderChartPage serves a stored chart as a standalone HTML page, applying
// the same owner-or-public rule as the JSON chart endpoints.
func (s *Service) RenderChartPage(ctx context.Context, viewerID, chartID int64) (string, error) {
	chart, err := s.GetChart(ctx, viewerID, chartID)
	if err != nil {
		return "", err
	}
	return s.RenderHTML(chart.Content, chart.Title)
}
