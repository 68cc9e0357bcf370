package archive

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

// Field carries the machine value and the visible label of one dropdown pick.
type Field struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Record describes one archived combination: all seven picks plus where the
// page was written and when.
type Record struct {
	State     Field     `json:"state"`
	District  Field     `json:"district"`
	Block     Field     `json:"block"`
	Panchayat Field     `json:"panchayat"`
	Year      Field     `json:"year"`
	Date      Field     `json:"date"`
	Option    Field     `json:"option"`
	File      string    `json:"file"`
	SavedAt   time.Time `json:"saved_at"`
}

// Key returns the combination key for the record.
func (r Record) Key() Key {
	return NewKey(r.State.Value, r.District.Value, r.Block.Value,
		r.Panchayat.Value, r.Year.Value, r.Date.Value)
}

// Manifest is an append-only JSONL log of archived combinations. It is the
// authoritative resume source; filename scanning is only a fallback for
// archives written before the manifest existed.
type Manifest struct {
	path string
	f    *os.File
	enc  *json.Encoder
}

// OpenManifest opens (or creates) the manifest for appending.
func OpenManifest(path string) (*Manifest, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening manifest %s: %w", path, err)
	}
	return &Manifest{path: path, f: f, enc: json.NewEncoder(f)}, nil
}

// Append writes one record as a single JSON line.
func (m *Manifest) Append(rec Record) error {
	if err := m.enc.Encode(rec); err != nil {
		return fmt.Errorf("appending to manifest %s: %w", m.path, err)
	}
	return nil
}

// Close releases the underlying file.
func (m *Manifest) Close() error {
	return m.f.Close()
}

// ReadManifestKeys returns the key set recorded in the manifest at path.
// A missing manifest yields an empty set; corrupt lines are skipped with a
// warning so one bad write never poisons a resume.
func ReadManifestKeys(path string) (map[Key]struct{}, error) {
	keys := make(map[Key]struct{})

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return keys, nil
		}
		return nil, fmt.Errorf("opening manifest %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			slog.Warn("skipping corrupt manifest line", "path", path, "line", line, "error", err)
			continue
		}
		keys[rec.Key()] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	return keys, nil
}
