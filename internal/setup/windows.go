package setup

import (
	"log/slog"
	"strings"

	"github.com/five82/dinemenu/internal/dining"
	"github.com/five82/dinemenu/internal/entry"
	"github.com/five82/dinemenu/internal/period"
)

// WindowField is one editable window on the windows form.
type WindowField struct {
	Slug  string
	ID    string
	Name  string
	Start string
	End   string
}

// WindowValue is the user's input for one WindowField.
type WindowValue struct {
	Start string
	End   string
}

type defaultWindow struct {
	keyword    string
	start, end string
}

// defaultWindows are matched by substring against a period's key, in order.
var defaultWindows = []defaultWindow{
	{"breakfast", "05:00", "10:30"},
	{"lunch", "11:00", "15:00"},
	{"dinner", "16:00", "23:00"},
	{"everyday", "00:00", "23:59"},
}

// DefaultWindow returns the suggested bounds for a period key.
func DefaultWindow(key string) (start, end string) {
	key = strings.ToLower(key)
	for _, d := range defaultWindows {
		if strings.Contains(key, d.keyword) {
			return d.start, d.end
		}
	}
	return "00:00", "23:59"
}

// windowFields builds one field per period key. Periods sharing a key keep
// the first one's position and the last one's identity.
func windowFields(periods []dining.Period) []WindowField {
	fields := make([]WindowField, 0, len(periods))
	index := make(map[string]int, len(periods))
	for _, p := range periods {
		key := p.Key()
		start, end := DefaultWindow(key)
		field := WindowField{Slug: key, ID: p.ID, Name: p.Name, Start: start, End: end}
		if i, seen := index[key]; seen {
			fields[i] = field
			continue
		}
		index[key] = len(fields)
		fields = append(fields, field)
	}
	return fields
}

func fieldsOf(windows []entry.Window) []WindowField {
	fields := make([]WindowField, 0, len(windows))
	for _, w := range windows {
		fields = append(fields, WindowField(w))
	}
	return fields
}

func applyValues(fields []WindowField, values []WindowValue) []WindowField {
	out := append([]WindowField(nil), fields...)
	for i := range out {
		out[i].Start = strings.TrimSpace(values[i].Start)
		out[i].End = strings.TrimSpace(values[i].End)
	}
	return out
}

// anyValid reports whether at least one field is a proper range.
func anyValid(fields []WindowField, logger *slog.Logger) bool {
	valid := false
	for _, w := range fields {
		ok := period.ValidRange(w.Start, w.End)
		logger.Debug("validating window", "slug", w.Slug, "start", w.Start, "end", w.End, "valid", ok)
		if ok {
			valid = true
		}
	}
	return valid
}

func toWindows(fields []WindowField) []entry.Window {
	out := make([]entry.Window, 0, len(fields))
	for _, f := range fields {
		out = append(out, entry.Window(f))
	}
	return out
}
