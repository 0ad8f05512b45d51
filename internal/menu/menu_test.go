package menu

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return v
}

func TestNormalize_SingleCategory(t *testing.T) {
	raw := decode(t, `{"period":{"categories":[{"name":"Entrees","items":[{"name":"Pizza"},{"name":"Salad"}]}]}}`)

	got := Normalize(raw)
	want := Snapshot{
		Categories: Categories{{Name: "Entrees", Items: []string{"Pizza", "Salad"}}},
		Total:      2,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %#v, want %#v", got, want)
	}
}

func TestNormalize_EmptyOrMissing(t *testing.T) {
	cases := []struct {
		name string
		raw  any
	}{
		{"nil", nil},
		{"empty mapping", map[string]any{}},
		{"bare list", []any{}},
		{"period not object", map[string]any{"period": "closed"}},
		{"categories missing", decode(t, `{"period":{}}`)},
		{"categories null", decode(t, `{"period":{"categories":null}}`)},
		{"categories empty", decode(t, `{"period":{"categories":[]}}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.raw)
			if len(got.Categories) != 0 || got.Total != 0 {
				t.Fatalf("Normalize = %#v, want empty", got)
			}
		})
	}
}

func TestNormalize_PreservesOrderAndKeepsEmptyCategories(t *testing.T) {
	raw := decode(t, `{"period":{"categories":[
		{"name":"Soup","items":[{"name":"Tomato"}]},
		{"name":"Closed Station","items":[]},
		{"items":[{"name":"Mystery"},{"calories":10}]},
		"junk",
		{"name":"Grill","items":null}
	]}}`)

	got := Normalize(raw)
	if names := got.Categories.Names(); !reflect.DeepEqual(names, []string{"Soup", "Closed Station", "Unknown", "Grill"}) {
		t.Fatalf("Names = %v", names)
	}
	if items, _ := got.Categories.Lookup("Unknown"); !reflect.DeepEqual(items, []string{"Mystery", ""}) {
		t.Fatalf("Unknown items = %#v", items)
	}
	if items, ok := got.Categories.Lookup("Closed Station"); !ok || len(items) != 0 {
		t.Fatalf("Closed Station = (%#v, %v), want present and empty", items, ok)
	}
	if got.Total != 3 {
		t.Fatalf("Total = %d, want 3", got.Total)
	}
}

func TestNormalize_RepeatedNameReplacesInPlace(t *testing.T) {
	raw := decode(t, `{"period":{"categories":[
		{"name":"A","items":[{"name":"1"},{"name":"2"}]},
		{"name":"B","items":[{"name":"3"}]},
		{"name":"A","items":[{"name":"4"}]}
	]}}`)

	got := Normalize(raw)
	want := Categories{{Name: "A", Items: []string{"4"}}, {Name: "B", Items: []string{"3"}}}
	if !reflect.DeepEqual(got.Categories, want) {
		t.Fatalf("Categories = %#v, want %#v", got.Categories, want)
	}
	sum := 0
	for _, c := range got.Categories {
		sum += len(c.Items)
	}
	if got.Total != sum {
		t.Fatalf("Total = %d, want sum of categories %d", got.Total, sum)
	}
}

func TestCategories_MarshalJSONKeepsOrder(t *testing.T) {
	cats := Categories{
		{Name: "Zeta", Items: []string{"z"}},
		{Name: "Alpha", Items: nil},
		{Name: `Quote "q"`, Items: []string{"a", "b"}},
	}
	got, err := json.Marshal(cats)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"Zeta":["z"],"Alpha":[],"Quote \"q\"":["a","b"]}`
	if string(got) != want {
		t.Fatalf("Marshal = %s, want %s", got, want)
	}

	empty, _ := json.Marshal(Categories(nil))
	if string(empty) != "{}" {
		t.Fatalf("Marshal(nil) = %s, want {}", empty)
	}
}
