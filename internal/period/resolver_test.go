package period

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/five82/dinemenu/internal/dining"
	"github.com/five82/dinemenu/internal/entry"
)

type fakePeriods struct {
	periods []dining.Period
	calls   int
	gotLoc  string
	gotDate time.Time
}

func (f *fakePeriods) FetchPeriods(_ context.Context, locationID string, date time.Time) []dining.Period {
	f.calls++
	f.gotLoc = locationID
	f.gotDate = date
	return f.periods
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func at(hh, mm, ss int) time.Time {
	return time.Date(2025, time.March, 4, hh, mm, ss, 0, time.Local)
}

func mealWindows() []entry.Window {
	return []entry.Window{
		{Slug: "lunch", ID: "p-lunch", Name: "Lunch", Start: "11:00", End: "15:00"},
		{Slug: "dinner", ID: "p-dinner", Name: "Dinner", Start: "16:00", End: "23:00"},
	}
}

func TestResolveIDByName_CaseInsensitiveFirstMatch(t *testing.T) {
	lister := &fakePeriods{periods: []dining.Period{
		{ID: "b", Name: "Breakfast"},
		{ID: "l1", Name: "LUNCH"},
		{ID: "l2", Name: "lunch"},
	}}
	r := NewResolver(lister, quietLogger())

	day := at(9, 0, 0)
	id, ok := r.ResolveIDByName(context.Background(), "loc", day, "Lunch")
	if !ok || id != "l1" {
		t.Fatalf("ResolveIDByName = (%q, %v), want (l1, true)", id, ok)
	}
	if lister.gotLoc != "loc" || !lister.gotDate.Equal(day) {
		t.Fatalf("lister called with (%q, %v), want (loc, %v)", lister.gotLoc, lister.gotDate, day)
	}
}

func TestResolveIDByName_NoMatch(t *testing.T) {
	cases := []struct {
		name    string
		periods []dining.Period
	}{
		{"not listed", []dining.Period{{ID: "b", Name: "Breakfast"}}},
		{"prefix only", []dining.Period{{ID: "x", Name: "Lunch Special"}}},
		{"empty list", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver(&fakePeriods{periods: tc.periods}, quietLogger())
			id, ok := r.ResolveIDByName(context.Background(), "loc", at(9, 0, 0), "Lunch")
			if ok || id != "" {
				t.Fatalf("ResolveIDByName = (%q, %v), want absent", id, ok)
			}
		})
	}
}

func TestMatchWindow(t *testing.T) {
	cases := []struct {
		name   string
		now    time.Time
		want   string
		wantOK bool
	}{
		{"inside lunch", at(12, 0, 0), "Lunch", true},
		{"lunch start inclusive", at(11, 0, 0), "Lunch", true},
		{"lunch end inclusive", at(15, 0, 0), "Lunch", true},
		{"just past lunch end", at(15, 0, 1), "", false},
		{"gap", at(15, 30, 0), "", false},
		{"dinner", at(22, 59, 59), "Dinner", true},
		{"before everything", at(6, 0, 0), "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MatchWindow(mealWindows(), tc.now, quietLogger())
			if ok != tc.wantOK || got.Name != tc.want {
				t.Fatalf("MatchWindow(%s) = (%#v, %v), want (%q, %v)", tc.now.Format("15:04:05"), got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestMatchWindow_FirstOverlapWins(t *testing.T) {
	windows := []entry.Window{
		{Slug: "everyday", ID: "e", Name: "Everyday", Start: "00:00", End: "23:59"},
		{Slug: "lunch", ID: "l", Name: "Lunch", Start: "11:00", End: "15:00"},
	}
	got, ok := MatchWindow(windows, at(12, 0, 0), quietLogger())
	if !ok || got != (Active{ID: "e", Name: "Everyday"}) {
		t.Fatalf("MatchWindow = (%#v, %v), want Everyday", got, ok)
	}
}

func TestMatchWindow_SkipsMalformedAndContinues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	windows := []entry.Window{
		{Slug: "broken-start", ID: "x", Name: "X", Start: "noon", End: "15:00"},
		{Slug: "broken-end", ID: "y", Name: "Y", Start: "11:00", End: "25:99"},
		{Slug: "empty", ID: "z", Name: "Z"},
		{Slug: "lunch", ID: "l", Name: "Lunch", Start: "11:00", End: "15:00"},
	}
	got, ok := MatchWindow(windows, at(12, 0, 0), logger)
	if !ok || got.Name != "Lunch" {
		t.Fatalf("MatchWindow = (%#v, %v), want Lunch", got, ok)
	}
	if n := strings.Count(buf.String(), "skipping malformed window"); n != 3 {
		t.Fatalf("logged %d warnings, want 3: %s", n, buf.String())
	}
}

func TestMatchWindow_EmptyOrInvertedWindows(t *testing.T) {
	if _, ok := MatchWindow(nil, at(12, 0, 0), quietLogger()); ok {
		t.Fatalf("MatchWindow(nil) matched")
	}
	inverted := []entry.Window{{Slug: "late", Name: "Late", Start: "23:00", End: "01:00"}}
	if _, ok := MatchWindow(inverted, at(23, 30, 0), quietLogger()); ok {
		t.Fatalf("inverted window matched; windows do not wrap midnight")
	}
}

func TestParseClockAndValidRange(t *testing.T) {
	c, err := ParseClock(" 9:05 ")
	if err != nil {
		t.Fatalf("ParseClock returned error: %v", err)
	}
	if c.String() != "09:05" {
		t.Fatalf("ParseClock = %s, want 09:05", c)
	}
	if _, err := ParseClock("24:00"); err == nil {
		t.Fatalf("ParseClock(24:00) returned nil error")
	}

	if !ValidRange("11:00", "15:00") {
		t.Fatalf("ValidRange(11:00, 15:00) = false")
	}
	if ValidRange("15:00", "15:00") {
		t.Fatalf("ValidRange equal bounds = true")
	}
	if ValidRange("9:00", "8:00") {
		t.Fatalf("ValidRange inverted = true")
	}
	if ValidRange("x", "8:00") {
		t.Fatalf("ValidRange malformed = true")
	}
}
