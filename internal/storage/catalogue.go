package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"flowedit/internal/diagram"
	"flowedit/internal/ids"
)

const (
	DiagramsKey = "flowchart_diagrams"
	CurrentKey  = "flowchart_current"
)

// DefaultNameLayout formats the suggested save name.
const DefaultNameLayout = "Diagrama_2006-01-02_15-04"

// DefaultName suggests a save name for now.
func DefaultName(now time.Time) string {
	return now.Format(DefaultNameLayout)
}

// Record is a named diagram in the catalogue.
type Record struct {
	Data         diagram.Snapshot `json:"data"`
	LastModified time.Time        `json:"lastModified"`
	ID           string           `json:"id"`
}

// Entry summarises a Record for listing.
type Entry struct {
	Name         string
	LastModified time.Time
}

// Info summarises the catalogue. Size is the encoded size in bytes and
// LastModified is zero for an empty catalogue.
type Info struct {
	Count        int
	Size         int
	LastModified time.Time
}

// Recovery is the autosaved working diagram.
type Recovery struct {
	Data      diagram.Snapshot `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// Fresh reports whether the snapshot is younger than maxAge at now.
func (r Recovery) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(r.Timestamp) < maxAge
}

// Catalogue stores named diagrams as one document under DiagramsKey and
// the recovery snapshot under CurrentKey.
type Catalogue struct {
	kv       KV
	recovery KV
	logger   *slog.Logger
	now      func() time.Time
	newID    ids.Generator
}

type CatalogueOption func(*Catalogue)

// WithRecoveryStore keeps the recovery snapshot in kv instead of the
// catalogue store.
func WithRecoveryStore(kv KV) CatalogueOption {
	return func(c *Catalogue) { c.recovery = kv }
}

func WithLogger(l *slog.Logger) CatalogueOption {
	return func(c *Catalogue) { c.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CatalogueOption {
	return func(c *Catalogue) { c.now = now }
}

func WithIDGenerator(g ids.Generator) CatalogueOption {
	return func(c *Catalogue) { c.newID = g }
}

func NewCatalogue(kv KV, opts ...CatalogueOption) *Catalogue {
	c := &Catalogue{
		kv:       kv,
		recovery: kv,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
		newID:    ids.New,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Catalogue) all() (map[string]Record, error) {
	raw, ok, err := c.kv.Get(DiagramsKey)
	if err != nil {
		c.logger.Error("read catalogue", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	records := make(map[string]Record)
	if !ok || raw == "" {
		return records, nil
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		c.logger.Error("decode catalogue", slog.Any("error", err))
		return nil, fmt.Errorf("%w: decode catalogue: %v", ErrStorage, err)
	}
	return records, nil
}

func (c *Catalogue) put(records map[string]Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode catalogue: %v", ErrStorage, err)
	}
	if err := c.kv.Set(DiagramsKey, string(raw)); err != nil {
		c.logger.Error("write catalogue", slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Save stores s under name, replacing any diagram of the same name.
// Surrounding whitespace is not part of the name.
func (c *Catalogue) Save(name string, s diagram.Snapshot) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	records, err := c.all()
	if err != nil {
		return err
	}
	records[name] = Record{Data: s, LastModified: c.now().UTC(), ID: c.newID()}
	if err := c.put(records); err != nil {
		return err
	}
	c.logger.Info("diagram saved", slog.String("name", name),
		slog.Int("elements", len(s.Elements)), slog.Int("connections", len(s.Connections)))
	return nil
}

// Load returns the diagram saved under name.
func (c *Catalogue) Load(name string) (Record, error) {
	records, err := c.all()
	if err != nil {
		return Record{}, err
	}
	r, ok := records[name]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r, nil
}

// List returns the saved diagrams ordered by name.
func (c *Catalogue) List() ([]Entry, error) {
	records, err := c.all()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(records))
	for name, r := range records {
		out = append(out, Entry{Name: name, LastModified: r.LastModified})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes name. Deleting an unknown name is not an error.
func (c *Catalogue) Delete(name string) error {
	records, err := c.all()
	if err != nil {
		return err
	}
	if _, ok := records[name]; !ok {
		return nil
	}
	delete(records, name)
	if err := c.put(records); err != nil {
		return err
	}
	c.logger.Info("diagram deleted", slog.String("name", name))
	return nil
}

func (c *Catalogue) Info() (Info, error) {
	records, err := c.all()
	if err != nil {
		return Info{}, err
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return Info{}, fmt.Errorf("%w: encode catalogue: %v", ErrStorage, err)
	}
	info := Info{Count: len(records), Size: len(raw)}
	for _, r := range records {
		if r.LastModified.After(info.LastModified) {
			info.LastModified = r.LastModified
		}
	}
	return info, nil
}

// AutoSave overwrites the recovery snapshot.
func (c *Catalogue) AutoSave(s diagram.Snapshot) error {
	raw, err := json.Marshal(Recovery{Data: s, Timestamp: c.now().UTC()})
	if err != nil {
		return fmt.Errorf("%w: encode recovery: %v", ErrStorage, err)
	}
	if err := c.recovery.Set(CurrentKey, string(raw)); err != nil {
		c.logger.Warn("autosave failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	c.logger.Debug("autosaved", slog.Int("elements", len(s.Elements)))
	return nil
}

// LoadAutoSave returns the recovery snapshot if one was written.
func (c *Catalogue) LoadAutoSave() (Recovery, bool, error) {
	raw, ok, err := c.recovery.Get(CurrentKey)
	if err != nil {
		return Recovery{}, false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !ok || raw == "" {
		return Recovery{}, false, nil
	}
	var r Recovery
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		c.logger.Warn("decode recovery", slog.Any("error", err))
		return Recovery{}, false, fmt.Errorf("%w: decode recovery: %v", ErrStorage, err)
	}
	return r, true, nil
}
