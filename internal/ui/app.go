package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dinemenu/internal/prefs"
	"github.com/five82/dinemenu/internal/setup"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Wizard    Wizard
	Title     string
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	wizard    Wizard
	title     string
	prefsPath string

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	// Flow state
	form    setup.Form
	busy    bool
	spinner spinner.Model

	// Choice steps
	choices list.Model

	// Windows step
	inputs   []textinput.Model
	focusIdx int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	title := opts.Title
	if title == "" {
		title = "dinemenu setup"
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	choices := list.New(nil, delegate, 0, 0)
	choices.SetShowHelp(false)

	s := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:       ctx,
		wizard:    opts.Wizard,
		title:     title,
		prefsPath: opts.PrefsPath,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   s,
		choices:   choices,
		busy:      true,
	}
	m.applyTheme()
	return m
}

// Form returns the latest form shown. Once the flow has finished its Step is
// setup.StepDone or setup.StepAborted.
func (m Model) Form() setup.Form {
	return m.form
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.run(func(ctx context.Context) setup.Form { return m.wizard.Start(ctx) }),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case formMsg:
		m.busy = false
		return m, m.showForm(setup.Form(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.form.Step == setup.StepWindows {
		return m.updateInputs(msg)
	}
	var cmd tea.Cmd
	m.choices, cmd = m.choices.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	filtering := m.form.Step != setup.StepWindows && m.choices.FilterState() == list.Filtering
	if filtering && msg.String() != "ctrl+c" {
		var cmd tea.Cmd
		m.choices, cmd = m.choices.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case m.finished():
		// Any key leaves the summary.
		return m, tea.Quit
	case m.busy:
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		m.busy = true
		return m, m.run(func(ctx context.Context) setup.Form { return m.wizard.Retry(ctx) })
	}

	if m.form.Step == setup.StepWindows {
		return m.handleWindowsKey(msg)
	}
	return m.handleChoiceKey(msg)
}

func (m Model) handleChoiceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) {
		item, ok := m.choices.SelectedItem().(choiceItem)
		if !ok {
			return m, nil
		}
		step := m.form.Step
		m.busy = true
		return m, m.run(func(ctx context.Context) setup.Form {
			return m.wizard.Choose(ctx, step, string(item))
		})
	}
	var cmd tea.Cmd
	m.choices, cmd = m.choices.Update(msg)
	return m, cmd
}

func (m Model) handleWindowsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		return m, m.focus(m.focusIdx + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.focus(m.focusIdx - 1)
	case key.Matches(msg, m.keys.Submit):
		values := m.windowValues()
		m.busy = true
		return m, m.run(func(ctx context.Context) setup.Form {
			return m.wizard.SubmitWindows(ctx, values)
		})
	}
	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focusIdx < 0 || m.focusIdx >= len(m.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

// showForm replaces the widgets with the ones form needs.
func (m *Model) showForm(form setup.Form) tea.Cmd {
	m.form = form
	switch form.Step {
	case setup.StepWindows:
		m.inputs = make([]textinput.Model, 0, 2*len(form.Windows))
		for _, w := range form.Windows {
			m.inputs = append(m.inputs, newClockInput(w.Start), newClockInput(w.End))
		}
		m.focusIdx = 0
		return m.focus(0)

	case setup.StepDone, setup.StepAborted:
		return nil
	}

	items := make([]list.Item, 0, len(form.Options))
	selected := 0
	for i, opt := range form.Options {
		items = append(items, choiceItem(opt))
		if opt == form.Default {
			selected = i
		}
	}
	m.choices.ResetFilter()
	m.choices.Title = stepTitle(form.Step)
	cmd := m.choices.SetItems(items)
	m.choices.Select(selected)
	return cmd
}

// focus moves input focus to idx, wrapping around.
func (m *Model) focus(idx int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	idx = (idx%len(m.inputs) + len(m.inputs)) % len(m.inputs)
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focusIdx = idx
	return m.inputs[idx].Focus()
}

func (m Model) windowValues() []setup.WindowValue {
	values := make([]setup.WindowValue, 0, len(m.inputs)/2)
	for i := 0; i+1 < len(m.inputs); i += 2 {
		values = append(values, setup.WindowValue{Start: m.inputs[i].Value(), End: m.inputs[i+1].Value()})
	}
	return values
}

func (m Model) finished() bool {
	return m.form.Step == setup.StepDone || m.form.Step == setup.StepAborted
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.choices.Styles.Title = styles.Header
	m.spinner.Style = styles.AccentText
}

func (m *Model) resize() {
	// Header, error line and footer.
	m.choices.SetSize(m.width, max(m.height-6, 3))
	m.help.Width = m.width
}

// run executes a flow operation off the UI goroutine.
func (m Model) run(op func(ctx context.Context) setup.Form) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return formMsg(op(ctx))
	}
}

// renderMain renders the current step.
func (m Model) renderMain() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Header.Render(m.title))
	b.WriteString("\n")

	if msg := errorText(m.form.Error); msg != "" {
		b.WriteString(styles.DangerText.Render(msg))
		b.WriteString("\n")
	}

	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + styles.MutedText.Render(" Contacting the dining service..."))
	case m.finished():
		b.WriteString(m.renderSummary())
	case m.form.Step == setup.StepWindows:
		b.WriteString(m.renderWindows())
	default:
		b.WriteString(m.choices.View())
	}

	b.WriteString("\n")
	b.WriteString(styles.Footer.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderWindows() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(stepTitle(setup.StepWindows)))
	b.WriteString("\n\n")
	if len(m.form.Windows) == 0 {
		b.WriteString(styles.MutedText.Render("No periods are served at this location today."))
		return b.String()
	}

	nameWidth := 0
	for _, w := range m.form.Windows {
		nameWidth = max(nameWidth, lipgloss.Width(w.Name))
	}
	for i, w := range m.form.Windows {
		label := lipgloss.NewStyle().Width(nameWidth + 2).Render(w.Name)
		b.WriteString(styles.Text.Render(label))
		b.WriteString(m.inputs[2*i].View())
		b.WriteString(styles.FaintText.Render(" to "))
		b.WriteString(m.inputs[2*i+1].View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderSummary() string {
	styles := m.theme.Styles()
	if m.form.Step == setup.StepAborted {
		return styles.WarningText.Render("Nothing was saved.") + "\n" + styles.FaintText.Render("Press any key to exit.")
	}
	var b strings.Builder
	b.WriteString(styles.SuccessText.Render("Saved."))
	b.WriteString("\n")
	if e := m.form.Entry; e != nil {
		b.WriteString(styles.Text.Render(e.Title))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("id " + e.UniqueID()))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Press any key to exit."))
	return b.String()
}

func stepTitle(step setup.Step) string {
	switch step {
	case setup.StepSchool:
		return "Select your school"
	case setup.StepLocation:
		return "Select a dining location"
	case setup.StepMode:
		return "Follow the time of day (dynamic) or one fixed period (static)"
	case setup.StepPeriod:
		return "Select a period"
	case setup.StepWindows:
		return "Time window of each period (HH:MM)"
	}
	return ""
}

func errorText(code setup.FormError) string {
	switch code {
	case setup.ErrUnknown:
		return "Something went wrong. Press ctrl+r to retry."
	case setup.ErrInvalidTimeWindow:
		return "At least one window needs a start before its end."
	case setup.ErrAlreadyConfigured:
		return "This location is already configured."
	}
	return ""
}

func newClockInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "HH:MM"
	ti.CharLimit = 5
	ti.Width = 6
	ti.Prompt = ""
	ti.SetValue(value)
	return ti
}

type choiceItem string

func (c choiceItem) FilterValue() string { return string(c) }
func (c choiceItem) Title() string       { return string(c) }
func (c choiceItem) Description() string { return "" }

// Messages

type formMsg setup.Form

// Run starts the Bubble Tea program and returns the last form shown.
func Run(opts Options) (setup.Form, error) {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.contextOrBackground()))
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		return m.form, err
	}
	return setup.Form{}, err
}

func (o Options) contextOrBackground() context.Context {
	if o.Context == nil {
		return context.Background()
	}
	return o.Context
}
