package dining

import (
	"encoding/json"
	"strconv"
	"strings"
)

// School is a DineOnCampus site.
type School struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Location is a dining location within a school.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Period is a named meal-serving window. Its ID is assigned by the server
// and may change from one day to the next.
type Period struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Key returns the lowercase slug used to address the period in window
// configuration, falling back to the name and then to "period".
func (p Period) Key() string {
	switch {
	case strings.TrimSpace(p.Slug) != "":
		return strings.ToLower(p.Slug)
	case strings.TrimSpace(p.Name) != "":
		return strings.ToLower(p.Name)
	default:
		return "period"
	}
}

func decodeSchools(payload any) []School {
	var out []School
	for _, obj := range List(payload, "sites") {
		out = append(out, School{ID: String(obj, "id"), Name: String(obj, "name")})
	}
	return out
}

func decodeLocations(payload any) []Location {
	var out []Location
	for _, obj := range List(payload, "locations") {
		out = append(out, Location{ID: String(obj, "id"), Name: String(obj, "name")})
	}
	return out
}

func decodePeriods(payload any) []Period {
	var out []Period
	for _, obj := range List(payload, "periods") {
		out = append(out, Period{
			ID:   String(obj, "id"),
			Name: String(obj, "name"),
			Slug: String(obj, "slug"),
		})
	}
	return out
}

// List extracts the objects of a list response, accepting either a bare
// array or an object wrapping the array under key. Non-object elements are
// dropped.
func List(payload any, key string) []map[string]any {
	var raw []any
	switch v := payload.(type) {
	case []any:
		raw = v
	case map[string]any:
		raw, _ = v[key].([]any)
	}
	out := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		if obj, ok := el.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// String reads obj[key] as text. Numbers are formatted without exponent so
// numeric ids survive the round trip; anything else yields "".
func String(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
