// Package sink persists pipeline results as pretty-printed JSON files in
// the output directory and reads them back tolerantly: a missing or
// corrupt file is a logged fallback to the caller's zero state, never a
// fatal error, so later stages can run against whatever earlier stages
// managed to produce.
package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Store reads and writes JSON result files under one output directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// New creates a result store rooted at dir.
func New(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Save writes v as indented JSON to name inside the output directory,
// creating the directory if needed.
func (s *Store) Save(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	s.logger.Info("Saved result file",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Load reads name into out and reports whether it succeeded. A missing
// file is silent; a corrupt file is logged. On false the caller keeps its
// fallback value and must not trust out.
func (s *Store) Load(name string, out any) bool {
	path := filepath.Join(s.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to read result file", zap.String("path", path), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Failed to parse result file", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}
