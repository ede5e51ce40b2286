package store

import (
	"sync"

	"github.com/yildizm/QRStudio/internal/common"
)

// Store holds the current QR configuration. Each update swaps in a fresh
// copy, so snapshots handed out earlier never change underneath a reader.
type Store struct {
	mu  sync.RWMutex
	cfg common.QRConfig
}

// New creates a store seeded with initial
func New(initial common.QRConfig) *Store {
	return &Store{cfg: initial}
}

// Snapshot returns the current configuration by value
func (s *Store) Snapshot() common.QRConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetValue replaces the encoded content
func (s *Store) SetValue(value string) common.QRConfig {
	return s.update(func(c *common.QRConfig) { c.Value = value })
}

// SetFgColor replaces the foreground color
func (s *Store) SetFgColor(color string) common.QRConfig {
	return s.update(func(c *common.QRConfig) { c.FgColor = color })
}

// SetBgColor replaces the background color
func (s *Store) SetBgColor(color string) common.QRConfig {
	return s.update(func(c *common.QRConfig) { c.BgColor = color })
}

// SetLevel replaces the error-correction level
func (s *Store) SetLevel(level common.Level) common.QRConfig {
	return s.update(func(c *common.QRConfig) { c.Level = level })
}

// SetIncludeMargin toggles the quiet zone
func (s *Store) SetIncludeMargin(include bool) common.QRConfig {
	return s.update(func(c *common.QRConfig) { c.IncludeMargin = include })
}

// SetSize replaces the raster edge length in pixels
func (s *Store) SetSize(size int) common.QRConfig {
	return s.update(func(c *common.QRConfig) { c.Size = size })
}

func (s *Store) update(apply func(*common.QRConfig)) common.QRConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	apply(&next)
	s.cfg = next
	return next
}
