package entry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrAlreadyConfigured is returned by Add when an entry with the same unique
// id exists.
var ErrAlreadyConfigured = errors.New("already_configured")

// ErrNotFound is returned when no entry has the requested unique id.
var ErrNotFound = errors.New("entry not found")

type file struct {
	Entries []record `toml:"entries"`
}

type record struct {
	Title        string         `toml:"title"`
	SchoolID     string         `toml:"school_id"`
	LocationID   string         `toml:"location_id"`
	LocationName string         `toml:"location_name"`
	Dynamic      bool           `toml:"dynamic"`
	PeriodID     string         `toml:"period_id,omitempty"`
	PeriodName   string         `toml:"period_name,omitempty"`
	Windows      []windowRecord `toml:"windows,omitempty"`
}

type windowRecord struct {
	Slug  string `toml:"slug"`
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// Store reads and writes the entries file. Methods are safe for concurrent
// use within one process.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store backed by path. The file need not exist yet.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("entries path is empty")
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// List returns every entry in file order. A missing file yields no entries.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the entry with uniqueID.
func (s *Store) Get(uniqueID string) (Entry, error) {
	entries, err := s.List()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.UniqueID() == uniqueID {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%s: %w", uniqueID, ErrNotFound)
}

// Add appends e, refusing duplicates by unique id.
func (s *Store) Add(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range entries {
		if existing.UniqueID() == e.UniqueID() {
			return ErrAlreadyConfigured
		}
	}
	return s.save(append(entries, e))
}

// Update replaces the stored entry with uniqueID by e.
func (s *Store) Update(uniqueID string, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].UniqueID() == uniqueID {
			entries[i] = e
			return s.save(entries)
		}
	}
	return fmt.Errorf("%s: %w", uniqueID, ErrNotFound)
}

func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read entries: %w", err)
	}

	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse entries: %w", err)
	}

	entries := make([]Entry, 0, len(f.Entries))
	for _, rec := range f.Entries {
		e := rec.entry()
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("parse entries: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Store) save(entries []Entry) error {
	f := file{Entries: make([]record, 0, len(entries))}
	for _, e := range entries {
		f.Entries = append(f.Entries, toRecord(e))
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create entries dir: %w", err)
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write entries: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write entries: %w", err)
	}
	return nil
}

func (r record) entry() Entry {
	e := Entry{
		Title:        strings.TrimSpace(r.Title),
		SchoolID:     strings.TrimSpace(r.SchoolID),
		LocationID:   strings.TrimSpace(r.LocationID),
		LocationName: strings.TrimSpace(r.LocationName),
	}
	if e.LocationName == "" {
		e.LocationName = "Dining Hall"
	}
	if r.Dynamic {
		windows := make([]Window, 0, len(r.Windows))
		for _, w := range r.Windows {
			windows = append(windows, Window(w))
		}
		e.Selection = Dynamic{Windows: windows}
	} else {
		e.Selection = Static{PeriodID: r.PeriodID, PeriodName: r.PeriodName}
	}
	return e
}

func toRecord(e Entry) record {
	rec := record{
		Title:        e.Title,
		SchoolID:     e.SchoolID,
		LocationID:   e.LocationID,
		LocationName: e.LocationName,
	}
	switch sel := e.Selection.(type) {
	case Static:
		rec.PeriodID = sel.PeriodID
		rec.PeriodName = sel.PeriodName
	case Dynamic:
		rec.Dynamic = true
		for _, w := range sel.Windows {
			rec.Windows = append(rec.Windows, windowRecord(w))
		}
	}
	return rec
}
