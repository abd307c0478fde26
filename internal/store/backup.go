package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Backup copies the SQLite file aside on a fixed interval and prunes
// copies older than the retention window. The copy is a plain file copy;
// SQLite keeps the file consistent between transactions and the shop's
// write volume makes a torn copy unlikely enough for this use.
type Backup struct {
	dbPath    string
	dir       string
	interval  time.Duration
	retention time.Duration
	logger    zerolog.Logger
	clock     func() time.Time
}

// NewBackup creates a backup runner. interval defaults to 24h.
func NewBackup(dbPath, dir string, interval time.Duration, retentionDays int, logger zerolog.Logger) *Backup {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Backup{
		dbPath:    dbPath,
		dir:       dir,
		interval:  interval,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
		clock:     time.Now,
	}
}

// Run performs an immediate backup and then one per interval until the
// channel closes. Call in a goroutine; stop by closing done.
func (b *Backup) Run(done <-chan struct{}) {
	if err := b.RunOnce(); err != nil {
		b.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := b.RunOnce(); err != nil {
				b.logger.Error().Err(err).Msg("scheduled backup failed")
				continue
			}
			b.prune()
		}
	}
}

// RunOnce writes one timestamped copy of the database file.
func (b *Backup) RunOnce() error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("barberbook_%s.db", b.clock().Format("20060102_150405"))
	target := filepath.Join(b.dir, name)

	source, err := os.Open(b.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer source.Close()

	dest, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}

	b.logger.Info().Str("path", target).Msg("backup written")
	return nil
}

func (b *Backup) prune() {
	if b.retention <= 0 {
		return
	}
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		b.logger.Error().Err(err).Msg("could not scan backup directory")
		return
	}
	cutoff := b.clock().Add(-b.retention)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			b.logger.Info().Str("file", entry.Name()).Msg("pruning old backup")
			_ = os.Remove(filepath.Join(b.dir, entry.Name()))
		}
	}
}
