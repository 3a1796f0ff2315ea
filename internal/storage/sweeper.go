package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultSweepInterval = 15 * time.Minute
	DefaultScratchTTL    = time.Hour
)

// StartSweeper launches a background loop that removes scratch files older
// than ttl. Requests clean up after themselves; the sweeper only catches
// files leaked by a crashed process or a killed request.
func (s *Store) StartSweeper(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if ttl <= 0 {
		ttl = DefaultScratchTTL
	}
	go s.sweepLoop(ctx, interval, ttl)
}

func (s *Store) sweepLoop(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ttl); n > 0 {
				s.log.Info().Int("removed", n).Msg("swept stale scratch files")
			}
		}
	}
}

// Sweep removes regular files in the scratch directory whose modification
// time is older than ttl and returns how many were deleted.
func (s *Store) Sweep(ttl time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Msg("read scratch dir failed")
		}
		return 0
	}
	cutoff := time.Now().Add(-ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if s.Remove(filepath.Join(s.dir, entry.Name())) {
			removed++
		}
	}
	return removed
}
