// Package fileio reads and writes diagram files: a versioned envelope
// around a diagram snapshot.
package fileio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"flowedit/internal/diagram"
)

// Version is the envelope format version written on export.
const Version = "1.0"

// DefaultExportName is suggested when exporting without a name.
const DefaultExportName = "mi_diagrama.json"

// CreatedLayout formats the creation timestamp with millisecond precision in UTC.
const CreatedLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrMalformedImport = errors.New("fileio: malformed import")

// Envelope wraps a snapshot for export.
type Envelope struct {
	Version string           `json:"version"`
	Created string           `json:"created"`
	Diagram diagram.Snapshot `json:"diagram"`
}

// NewEnvelope wraps s, stamped with now.
func NewEnvelope(s diagram.Snapshot, now time.Time) Envelope {
	return Envelope{
		Version: Version,
		Created: now.UTC().Format(CreatedLayout),
		Diagram: s,
	}
}

// CreatedAt parses the creation timestamp. Files from other writers may
// carry any RFC 3339 timestamp or none at all.
func (e Envelope) CreatedAt() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, e.Created)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Write encodes env as 2-space indented JSON.
func Write(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return nil
}

// ExportFile writes env to path, replacing any existing file.
func ExportFile(path string, env Envelope) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Write(f, env)
}
