package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mermadic/mermadic/render"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// CacheSweeper removes orphaned temporary diagram sources from the render
// cache directory. Temp files normally live only for the duration of one
// render; anything older than maxAge is a crash leftover. Rendered .svg
// artifacts are never touched: the cache has no eviction.
type CacheSweeper struct {
	dir      string
	interval time.Duration
	maxAge   time.Duration
}

func NewCacheSweeper(dir string, interval, maxAge time.Duration) *CacheSweeper {
	return &CacheSweeper{dir: dir, interval: interval, maxAge: maxAge}
}

func (s *CacheSweeper) Run(shutdownCtx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-shutdownCtx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep performs a single pass. Exported so it can run once at startup.
func (s *CacheSweeper) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Error().Err(err).Str("dir", s.dir).Msg("Failed to scan cache dir")
		return
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), render.TempSourceSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			// Possibly an in-flight render
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			logger.Error().Err(err).Str("file", entry.Name()).Msg("Failed to remove stale temp source")
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info().Int("removed", removed).Msg("Swept stale diagram sources")
	}
}
