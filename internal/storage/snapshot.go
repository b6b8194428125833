// Package storage reads and writes the JSON snapshots that connect the
// pipeline stages. Each stage reads the snapshots of the previous one from a
// single data directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot file names.
const (
	CardsFile          = "pauper_cards_detailed.json"
	KnownCombosFile    = "known_combos.json"
	CandidatesFile     = "potential_combos.json"
	ComboTrainingFile  = "combo_training_data.json"
	GeneralTrainingSet = "training_data.json"
	FormattedFile      = "formatted_all.json"
	DiscoveriesFile    = "discovered_combos.json"
)

// ErrMissingSnapshot is returned when a required snapshot has not been
// produced yet.
var ErrMissingSnapshot = errors.New("missing snapshot")

// MissingSnapshotError names the missing file and how to produce it.
type MissingSnapshotError struct {
	Path   string
	Remedy string
}

func (e *MissingSnapshotError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Path, e.Remedy)
}

// Is reports whether target is ErrMissingSnapshot.
func (e *MissingSnapshotError) Is(target error) bool {
	return target == ErrMissingSnapshot
}

// remedies maps each snapshot to the command that writes it.
var remedies = map[string]string{
	CardsFile:          "run `pauper-combos collect` first",
	KnownCombosFile:    "run `pauper-combos collect` first",
	CandidatesFile:     "run `pauper-combos collect` first",
	ComboTrainingFile:  "run `pauper-combos collect` first",
	GeneralTrainingSet: "run `pauper-combos collect` first",
	FormattedFile:      "run `pauper-combos train` first",
	DiscoveriesFile:    "run `pauper-combos discover` first",
}

// Store is a directory of JSON snapshots.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of a snapshot.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether a snapshot is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Missing returns the names that have no snapshot, in argument order.
func (s *Store) Missing(names ...string) []string {
	var missing []string
	for _, name := range names {
		if !s.Exists(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Require returns a MissingSnapshotError for the first absent snapshot.
func (s *Store) Require(names ...string) error {
	if missing := s.Missing(names...); len(missing) > 0 {
		return s.missing(missing[0])
	}
	return nil
}

func (s *Store) missing(name string) error {
	remedy, ok := remedies[name]
	if !ok {
		remedy = "produce it before running this command"
	}
	return &MissingSnapshotError{Path: s.Path(name), Remedy: remedy}
}

// Save writes v as indented JSON. The file is written to a temporary file in
// the same directory and renamed into place, so readers never observe a
// partial snapshot.
func (s *Store) Save(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	tmpFile, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s: %w", name, err)
	}

	return nil
}

// Load decodes a snapshot into v. A missing file yields a
// MissingSnapshotError.
func (s *Store) Load(name string, v any) error {
	data, err := os.ReadFile(s.Path(name))
	if os.IsNotExist(err) {
		return s.missing(name)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Load decodes a snapshot into a value of type T.
func Load[T any](s *Store, name string) (T, error) {
	var v T
	err := s.Load(name, &v)
	return v, err
}
