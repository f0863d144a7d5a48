// Package seenstore persists the set of listing identities that have
// already been notified, so repeated runs stay idempotent.
package seenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"avtowatch/internal/parser"
)

// Store reads and rewrites the seen-set file as a whole. The file is
// the only state shared between runs; it grows monotonically.
type Store struct {
	path   string
	logger *slog.Logger
}

func New(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger.With("component", "seenstore")}
}

// seenFile is the canonical on-disk shape.
type seenFile struct {
	SeenIDs []string `json:"seen_ids"`
}

// legacyFile covers the older wrapped shape that stored full listing
// URLs instead of identities.
type legacyFile struct {
	SeenIDs []string `json:"seen_ids"`
	URLs    []string `json:"urls"`
}

// Load returns the persisted identities. A missing file is an empty
// set, and so is any payload that cannot be decoded: re-notifying
// beats crashing here.
func (s *Store) Load() map[string]struct{} {
	seen := make(map[string]struct{})

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("error reading seen file, starting empty", "path", s.path, "error", err)
		}
		return seen
	}

	ids, err := decodeSeenIDs(data)
	if err != nil {
		s.logger.Warn("malformed seen file, starting empty", "path", s.path, "error", err)
		return seen
	}

	for _, id := range ids {
		if id != "" {
			seen[id] = struct{}{}
		}
	}
	return seen
}

// decodeSeenIDs normalizes the three accepted payload shapes into one
// flat identity list: a bare array, the canonical {"seen_ids": [...]}
// object, or the legacy {"urls": [...]} object. Legacy URL entries are
// reduced to identities so dedup history survives a switch of
// ingestion method.
func decodeSeenIDs(data []byte) ([]string, error) {
	var bare []string
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}

	var wrapped legacyFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("seen file is neither a list nor a known object shape: %w", err)
	}
	if wrapped.SeenIDs != nil {
		return wrapped.SeenIDs, nil
	}
	if wrapped.URLs != nil {
		ids := make([]string, 0, len(wrapped.URLs))
		for _, u := range wrapped.URLs {
			ids = append(ids, parser.ListingID(u))
		}
		return ids, nil
	}
	return nil, nil
}

// Save rewrites the whole file with the canonical shape, identities
// sorted for a deterministic payload.
func (s *Store) Save(seen map[string]struct{}) error {
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.MarshalIndent(seenFile{SeenIDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding seen ids: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing seen file %s: %w", s.path, err)
	}
	return nil
}
