// Package state persists the last-known-synced checksums per profile
// and mapping key. The reconciliation engine uses them to decide which
// side of a differing mapping changed since the last sync.
package state

import (
	"encoding/json"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// Checksums maps a mapping key to the SHA-256 recorded when the
// mapping was last known to be in sync.
type Checksums map[string]string

// stateFile is the on-disk shape of the store.
type stateFile struct {
	Profiles map[string]Checksums `json:"profiles"`
}

// Store reads and writes the checksum state file.
type Store struct {
	path string
	fs   types.FS
	data stateFile
}

// NewStore creates a store backed by the given path. Load must be
// called before reading.
func NewStore(fsys types.FS, path string) *Store {
	return &Store{
		path: path,
		fs:   fsys,
		data: stateFile{Profiles: make(map[string]Checksums)},
	}
}

// Load reads the state file. A missing file is an empty store, not an
// error: the first sync has no recorded checksums.
func (s *Store) Load() error {
	raw, err := s.fs.ReadFile(s.path)
	if err != nil {
		s.data = stateFile{Profiles: make(map[string]Checksums)}
		return nil
	}
	var parsed stateFile
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return errors.Wrap(err, errors.ErrStateLoad, "failed to parse state file")
	}
	if parsed.Profiles == nil {
		parsed.Profiles = make(map[string]Checksums)
	}
	s.data = parsed
	return nil
}

// Get returns the recorded checksums for one profile. The returned map
// is a copy; mutate through Set.
func (s *Store) Get(profile string) Checksums {
	out := make(Checksums, len(s.data.Profiles[profile]))
	for k, v := range s.data.Profiles[profile] {
		out[k] = v
	}
	return out
}

// Set records the checksum a mapping was synced at.
func (s *Store) Set(profile, key, checksum string) {
	if s.data.Profiles[profile] == nil {
		s.data.Profiles[profile] = make(Checksums)
	}
	s.data.Profiles[profile][key] = checksum
}

// Delete drops the recorded checksum for a mapping.
func (s *Store) Delete(profile, key string) {
	delete(s.data.Profiles[profile], key)
}

// Save writes the state file, creating its directory if needed.
func (s *Store) Save() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrStateSave, "failed to serialize state")
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), fs.FileMode(0755)); err != nil {
		return errors.Wrap(err, errors.ErrStateSave, "failed to create state directory")
	}
	if err := s.fs.WriteFile(s.path, raw, fs.FileMode(0644)); err != nil {
		return errors.Wrap(err, errors.ErrStateSave, "failed to write state file")
	}
	return nil
}
