// Package menu turns raw period-menu payloads into ordered category listings.
package menu

import (
	"bytes"
	"encoding/json"
)

const unknownCategory = "Unknown"

// Category is one menu section and its item names in API order.
type Category struct {
	Name  string
	Items []string
}

// Categories is an ordered category-name → items mapping. It encodes as a
// JSON object whose keys keep their order.
type Categories []Category

// Snapshot is the normalized menu of one refresh cycle. Snapshots are built
// whole and never modified afterwards.
type Snapshot struct {
	Categories Categories
	Total      int
}

// Normalize extracts payload.period.categories. Missing or malformed parts
// become empty structures; a category without items is kept with zero items.
// A repeated category name replaces the earlier item list in place.
func Normalize(raw any) Snapshot {
	payload, _ := raw.(map[string]any)
	period, _ := payload["period"].(map[string]any)
	rawCats, _ := period["categories"].([]any)

	var cats Categories
	index := make(map[string]int, len(rawCats))
	for _, rc := range rawCats {
		obj, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		name, ok := obj["name"].(string)
		if !ok {
			name = unknownCategory
		}
		items := itemNames(obj["items"])
		if i, seen := index[name]; seen {
			cats[i].Items = items
			continue
		}
		index[name] = len(cats)
		cats = append(cats, Category{Name: name, Items: items})
	}

	snap := Snapshot{Categories: cats}
	for _, c := range cats {
		snap.Total += len(c.Items)
	}
	return snap
}

func itemNames(raw any) []string {
	list, _ := raw.([]any)
	items := make([]string, 0, len(list))
	for _, el := range list {
		var name string
		if obj, ok := el.(map[string]any); ok {
			name, _ = obj["name"].(string)
		}
		items = append(items, name)
	}
	return items
}

// Lookup returns the items of the named category.
func (c Categories) Lookup(name string) ([]string, bool) {
	for _, cat := range c {
		if cat.Name == name {
			return cat.Items, true
		}
	}
	return nil, false
}

// Names lists the category names in order.
func (c Categories) Names() []string {
	names := make([]string, 0, len(c))
	for _, cat := range c {
		names = append(names, cat.Name)
	}
	return names
}

// MarshalJSON encodes the categories as an ordered object.
func (c Categories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		items := cat.Items
		if items == nil {
			items = []string{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
