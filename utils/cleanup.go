package utils

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// SweepStaleUploads removes regular files in dir last modified before
// now-staleAfter and returns how many were removed. A missing dir is not an error.
func SweepStaleUploads(dir string, staleAfter time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	cutoff := now.Add(-staleAfter)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			Logger.Warn("upload sweeper remove failed", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// StartUploadCleaner periodically deletes temporary uploads that outlived
// their request, e.g. after a crash between response and cleanup. It stops
// when ctx is cancelled.
func StartUploadCleaner(ctx context.Context, dir string, staleAfter, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := SweepStaleUploads(dir, staleAfter, now)
				if err != nil {
					Logger.Warn("upload sweeper failed", zap.String("dir", dir), zap.Error(err))
					continue
				}
				if n > 0 {
					Logger.Info("removed stale uploads", zap.String("dir", dir), zap.Int("count", n))
				}
			}
		}
	}()
}
