package ui

import (
	"context"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dinemenu/internal/entry"
	"github.com/five82/dinemenu/internal/setup"
)

type fakeWizard struct {
	chosen    []string
	steps     []setup.Step
	submitted [][]setup.WindowValue
	retries   int
	next      setup.Form
}

func (f *fakeWizard) Start(context.Context) setup.Form { return f.next }

func (f *fakeWizard) Retry(context.Context) setup.Form {
	f.retries++
	return f.next
}

func (f *fakeWizard) Choose(_ context.Context, step setup.Step, choice string) setup.Form {
	f.steps = append(f.steps, step)
	f.chosen = append(f.chosen, choice)
	return f.next
}

func (f *fakeWizard) SubmitWindows(_ context.Context, values []setup.WindowValue) setup.Form {
	f.submitted = append(f.submitted, values)
	return f.next
}

func newTestModel(w *fakeWizard) Model {
	m := New(Options{Wizard: w})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_ChoiceStepSendsSelection(t *testing.T) {
	w := &fakeWizard{}
	m := newTestModel(w)

	m, _ = send(t, m, formMsg(setup.Form{Step: setup.StepMode, Options: []string{"dynamic", "static"}, Default: "static"}))
	if m.busy {
		t.Fatalf("model still busy after a form arrived")
	}
	if item, _ := m.choices.SelectedItem().(choiceItem); item != "static" {
		t.Fatalf("selected = %q, want the default", item)
	}

	w.next = setup.Form{Step: setup.StepPeriod, Options: []string{"Lunch"}}
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.busy {
		t.Fatalf("enter did not start the step (busy=%v)", m.busy)
	}
	msg := cmd()
	if !reflect.DeepEqual(w.chosen, []string{"static"}) || w.steps[0] != setup.StepMode {
		t.Fatalf("chosen = %v at %v", w.chosen, w.steps)
	}

	m, _ = send(t, m, msg)
	if m.Form().Step != setup.StepPeriod || m.choices.Title != "Select a period" {
		t.Fatalf("form = %#v, title %q", m.Form(), m.choices.Title)
	}
}

func TestModel_WindowsStepSubmitsEditedValues(t *testing.T) {
	w := &fakeWizard{}
	m := newTestModel(w)

	m, _ = send(t, m, formMsg(setup.Form{Step: setup.StepWindows, Windows: []setup.WindowField{
		{Slug: "lunch", Name: "Lunch", Start: "11:00", End: "15:00"},
		{Slug: "dinner", Name: "Dinner", Start: "16:00", End: "23:00"},
	}}))
	if len(m.inputs) != 4 || m.inputs[2].Value() != "16:00" {
		t.Fatalf("inputs = %d, want four prefilled fields", len(m.inputs))
	}
	if !m.inputs[0].Focused() {
		t.Fatalf("first field not focused")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focusIdx != 1 {
		t.Fatalf("focusIdx = %d, want 1 after tab", m.focusIdx)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focusIdx != 3 {
		t.Fatalf("focusIdx = %d, want wrap to 3", m.focusIdx)
	}

	m.inputs[3].SetValue("22:00")
	w.next = setup.Form{Step: setup.StepDone, Entry: &entry.Entry{Title: "State U - Commons (Dynamic)"}}
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, cmd())

	want := []setup.WindowValue{{Start: "11:00", End: "15:00"}, {Start: "16:00", End: "22:00"}}
	if len(w.submitted) != 1 || !reflect.DeepEqual(w.submitted[0], want) {
		t.Fatalf("submitted = %v, want %v", w.submitted, want)
	}
	if !m.finished() || !strings.Contains(m.View(), "State U - Commons (Dynamic)") {
		t.Fatalf("summary not shown: %q", m.View())
	}
}

func TestModel_ErrorAndRetry(t *testing.T) {
	w := &fakeWizard{}
	m := newTestModel(w)

	m, _ = send(t, m, formMsg(setup.Form{Step: setup.StepSchool, Error: setup.ErrUnknown}))
	if !strings.Contains(m.View(), "retry") {
		t.Fatalf("error not rendered: %q", m.View())
	}

	w.next = setup.Form{Step: setup.StepSchool, Options: []string{"State U"}}
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m, _ = send(t, m, cmd())
	if w.retries != 1 || m.Form().Error != "" || len(m.choices.Items()) != 1 {
		t.Fatalf("retry = %d, form = %#v", w.retries, m.Form())
	}
}

func TestModel_KeysIgnoredWhileBusy(t *testing.T) {
	w := &fakeWizard{}
	m := newTestModel(w)
	if !m.busy {
		t.Fatalf("model not busy before the first form")
	}
	if _, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("enter while busy returned a command")
	}
}

func TestThemeCycle(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 || names[0] != "Nightfox" {
		t.Fatalf("ThemeNames() = %v", names)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want wrap to Nightfox", got)
	}
	if got := GetTheme("missing"); got.Name != "Nightfox" {
		t.Fatalf("GetTheme(missing) = %q, want Nightfox", got.Name)
	}
}
