package entry

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func staticEntry() Entry {
	return Entry{
		Title:        "State U - Commons - Lunch",
		SchoolID:     "s1",
		LocationID:   "l1",
		LocationName: "Commons",
		Selection:    Static{PeriodID: "p1", PeriodName: "Lunch"},
	}
}

func dynamicEntry() Entry {
	return Entry{
		Title:        "State U - Commons (Dynamic)",
		SchoolID:     "s1",
		LocationID:   "l1",
		LocationName: "Commons",
		Selection: Dynamic{Windows: []Window{
			{Slug: "lunch", ID: "p1", Name: "Lunch", Start: "11:00", End: "15:00"},
			{Slug: "dinner", ID: "p2", Name: "Dinner", Start: "16:00", End: "23:00"},
			{Slug: "breakfast", ID: "p0", Name: "Breakfast", Start: "05:00", End: "10:30"},
		}},
	}
}

func TestUniqueID(t *testing.T) {
	if got := staticEntry().UniqueID(); got != "s1_l1_p1" {
		t.Fatalf("static UniqueID = %q, want s1_l1_p1", got)
	}
	if got := dynamicEntry().UniqueID(); got != "s1_l1_dynamic" {
		t.Fatalf("dynamic UniqueID = %q, want s1_l1_dynamic", got)
	}
}

func TestValidate(t *testing.T) {
	e := staticEntry()
	e.Selection = nil
	if err := e.Validate(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("Validate = %v, want ErrNoSelection", err)
	}

	e = dynamicEntry()
	e.Selection = Dynamic{}
	if err := e.Validate(); err == nil {
		t.Fatalf("Validate returned nil for empty windows")
	}

	e = staticEntry()
	e.LocationID = " "
	if err := e.Validate(); err == nil {
		t.Fatalf("Validate returned nil for blank location")
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "entries.toml"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	entries, err := s.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("List = %#v, want none", entries)
	}
}

func TestStore_RoundTripPreservesWindowOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "entries.toml")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := s.Add(staticEntry()); err != nil {
		t.Fatalf("Add static: %v", err)
	}
	if err := s.Add(dynamicEntry()); err != nil {
		t.Fatalf("Add dynamic: %v", err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	want := []Entry{staticEntry(), dynamicEntry()}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("List = %#v, want %#v", entries, want)
	}
}

func TestStore_AddRejectsDuplicates(t *testing.T) {
	s, _ := NewStore(filepath.Join(t.TempDir(), "entries.toml"))
	if err := s.Add(dynamicEntry()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := s.Add(dynamicEntry())
	if !errors.Is(err, ErrAlreadyConfigured) {
		t.Fatalf("second Add error = %v, want ErrAlreadyConfigured", err)
	}
}

func TestStore_UpdateReplacesSelection(t *testing.T) {
	s, _ := NewStore(filepath.Join(t.TempDir(), "entries.toml"))
	original := dynamicEntry()
	if err := s.Add(original); err != nil {
		t.Fatalf("Add: %v", err)
	}

	updated := original.WithSelection(Dynamic{Windows: []Window{
		{Slug: "lunch", ID: "p1", Name: "Lunch", Start: "10:00", End: "14:00"},
	}})
	if err := s.Update(original.UniqueID(), updated); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Get(original.UniqueID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.LocationName != "Commons" || got.SchoolID != "s1" {
		t.Fatalf("location fields changed: %#v", got)
	}
	dyn, ok := got.Selection.(Dynamic)
	if !ok || len(dyn.Windows) != 1 || dyn.Windows[0].Start != "10:00" {
		t.Fatalf("Selection = %#v, want one 10:00 window", got.Selection)
	}

	if err := s.Update("nope", updated); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update(nope) error = %v, want ErrNotFound", err)
	}
}

func TestStore_ParsesHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.toml")
	if err := os.WriteFile(path, []byte(`
[[entries]]
title = "Hall"
school_id = "s9"
location_id = "l9"
dynamic = true

  [[entries.windows]]
  slug = "dinner"
  id = "d"
  name = "Dinner"
  start = "16:00"
  end = "23:00"

  [[entries.windows]]
  slug = "lunch"
  id = "l"
  name = "Lunch"
  start = "11:00"
  end = "15:00"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, _ := NewStore(path)
	entries, err := s.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List = %#v, want 1 entry", entries)
	}
	if entries[0].LocationName != "Dining Hall" {
		t.Fatalf("LocationName = %q, want default Dining Hall", entries[0].LocationName)
	}
	dyn := entries[0].Selection.(Dynamic)
	if dyn.Windows[0].Slug != "dinner" || dyn.Windows[1].Slug != "lunch" {
		t.Fatalf("window order = %#v, want dinner then lunch", dyn.Windows)
	}
}

func TestStore_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.toml")
	if err := os.WriteFile(path, []byte(`[[entries]`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, _ := NewStore(path)
	_, err := s.List()
	if err == nil || !strings.Contains(err.Error(), "parse entries") {
		t.Fatalf("List error = %v, want parse entries error", err)
	}
}
