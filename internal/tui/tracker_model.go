package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/daylog/internal/db"
	"github.com/balkashynov/daylog/internal/models"
	"github.com/balkashynov/daylog/internal/parser"
)

// Engine is the part of the tracker the screen drives
type Engine interface {
	Now() time.Time
	Today() time.Time
	Status(ctx context.Context) (*db.StatusInfo, error)
	Categories(ctx context.Context, includeInactive bool) ([]string, error)
	StartDay(ctx context.Context, day time.Time) (*models.Session, error)
	StopDay(ctx context.Context, sessionID uint, end time.Time) (*models.Session, error)
	StartEntry(ctx context.Context, sessionID uint, project, category string) (*models.Entry, error)
	StopEntry(ctx context.Context, entryID uint, end time.Time) (*models.Entry, error)
}

type trackerMode int

const (
	modeWatch trackerMode = iota
	modeNewEntry
	modeConfirmStopDay
)

// TrackerModel is the interactive workday screen
type TrackerModel struct {
	ctx    context.Context
	engine Engine

	width  int
	height int

	mode       trackerMode
	status     *db.StatusInfo
	categories []string
	category   int // index into categories
	input      textinput.Model

	message string
	err     error

	frame    int // animation frame of the running indicator
	quitting bool
}

// statusMsg carries a fresh snapshot from the engine
type statusMsg struct {
	status     *db.StatusInfo
	categories []string
	err        error
}

// actionMsg reports the outcome of a start/stop action
type actionMsg struct {
	text string
	err  error
}

// trackerTickMsg is sent every second to update the clock
type trackerTickMsg struct{}

// NewTrackerModel creates the tracker screen
func NewTrackerModel(ctx context.Context, engine Engine) TrackerModel {
	input := textinput.New()
	input.Placeholder = "Project name, optionally #Category"
	input.CharLimit = 120
	input.Width = 50
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return TrackerModel{
		ctx:    ctx,
		engine: engine,
		input:  input,
	}
}

// Init loads the first snapshot and starts the clock
func (m TrackerModel) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return trackerTickMsg{}
	})
}

func (m TrackerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		status, err := m.engine.Status(m.ctx)
		if err != nil {
			return statusMsg{err: err}
		}
		categories, err := m.engine.Categories(m.ctx, false)
		return statusMsg{status: status, categories: categories, err: err}
	}
}

// Update handles messages
func (m TrackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case trackerTickMsg:
		m.frame = (m.frame + 1) % 4
		if m.quitting {
			return m, nil
		}
		return m, tick()

	case statusMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = msg.status
		m.categories = msg.categories
		if m.category >= len(m.categories) {
			m.category = 0
		}
		return m, nil

	case actionMsg:
		m.message = msg.text
		m.err = msg.err
		return m, m.refresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeNewEntry:
			return m.updateNewEntry(msg)
		case modeConfirmStopDay:
			return m.updateConfirm(msg)
		default:
			return m.updateWatch(msg)
		}
	}

	return m, nil
}

func (m TrackerModel) updateWatch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message, m.err = "", nil

	switch msg.String() {
	case "ctrl+c", "esc", "q":
		m.quitting = true
		return m, tea.Quit

	case "b":
		if m.session() != nil && m.session().IsOpen() {
			m.message = "The day is already running."
			return m, nil
		}
		return m, m.startDay()

	case "n":
		if m.session() == nil || !m.session().IsOpen() {
			m.message = "Start the day first (b)."
			return m, nil
		}
		if m.entry() != nil {
			m.message = "Stop the running entry first (s)."
			return m, nil
		}
		m.mode = modeNewEntry
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "s":
		if m.entry() == nil {
			m.message = "No entry is running."
			return m, nil
		}
		return m, m.stopEntry()

	case "d":
		if m.session() == nil || !m.session().IsOpen() {
			m.message = "No day is running."
			return m, nil
		}
		m.mode = modeConfirmStopDay
		return m, nil

	case "r":
		return m, m.refresh()
	}

	return m, nil
}

func (m TrackerModel) updateNewEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeWatch
		m.input.Blur()
		return m, nil

	case "tab":
		if len(m.categories) > 0 {
			m.category = (m.category + 1) % len(m.categories)
		}
		return m, nil

	case "shift+tab":
		if len(m.categories) > 0 {
			m.category = (m.category - 1 + len(m.categories)) % len(m.categories)
		}
		return m, nil

	case "enter":
		parsed := parser.ParseEntryTitle(m.input.Value())
		if len(parsed.Errors) > 0 {
			m.err = errors.New(strings.Join(parsed.Errors, "; "))
			return m, nil
		}
		category := parsed.Category
		if category == "" {
			category = m.selectedCategory()
		}
		m.mode = modeWatch
		m.input.Blur()
		return m, m.startEntry(parsed.Project, category)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TrackerModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeWatch
	switch msg.String() {
	case "y", "Y", "enter":
		return m, m.stopDay()
	}
	m.message = "Day keeps running."
	return m, nil
}

func (m TrackerModel) startDay() tea.Cmd {
	return func() tea.Msg {
		session, err := m.engine.StartDay(m.ctx, m.engine.Today())
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: fmt.Sprintf("Day %s started at %s", session.SessionDate, parser.FormatClock(session.StartedAt))}
	}
}

func (m TrackerModel) stopDay() tea.Cmd {
	id := m.session().ID
	return func() tea.Msg {
		session, err := m.engine.StopDay(m.ctx, id, m.engine.Now())
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: fmt.Sprintf("Day stopped: %s", formatHours(*session.TotalHours))}
	}
}

func (m TrackerModel) startEntry(project, category string) tea.Cmd {
	id := m.session().ID
	return func() tea.Msg {
		entry, err := m.engine.StartEntry(m.ctx, id, project, category)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: fmt.Sprintf("Tracking %s #%s", entry.Project, entry.Category)}
	}
}

func (m TrackerModel) stopEntry() tea.Cmd {
	id := m.entry().ID
	return func() tea.Msg {
		entry, err := m.engine.StopEntry(m.ctx, id, m.engine.Now())
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: fmt.Sprintf("Stopped %s: %s", entry.Project, formatHours(*entry.DurationHours))}
	}
}

func (m TrackerModel) session() *models.Session {
	if m.status == nil {
		return nil
	}
	return m.status.Session
}

func (m TrackerModel) entry() *models.Entry {
	if m.status == nil {
		return nil
	}
	return m.status.Entry
}

func (m TrackerModel) selectedCategory() string {
	if len(m.categories) == 0 {
		return ""
	}
	return m.categories[m.category]
}

// View renders the tracker
func (m TrackerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	// Narrow view: just the clock panel
	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderClockPanel(m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderClockPanel(leftWidth, contentHeight),
		"  ",
		m.renderTodayPanel(rightWidth, contentHeight),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

// renderClockPanel renders the running entry with a big elapsed clock
func (m TrackerModel) renderClockPanel(width, height int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
	var components []string

	header := "NO DAY RUNNING"
	switch {
	case m.entry() != nil:
		frames := []string{"⏱", "⏲", "⏱", "⏲"}
		header = fmt.Sprintf("%s  TRACKING  %s", frames[m.frame], frames[m.frame])
	case m.session() != nil && m.session().IsOpen():
		header = "DAY RUNNING · IDLE"
	case m.session() != nil:
		header = "DAY STOPPED"
	}
	components = append(components, center.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Render(header))

	if e := m.entry(); e != nil {
		title := fmt.Sprintf("%s  #%s", e.Project, e.Category)
		components = append(components, center.Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true).Render(truncate(title, width-4)))

		clock := bigClock(m.engine.Now().Sub(e.StartedAt))
		var lines []string
		for _, line := range strings.Split(clock, "\n") {
			lines = append(lines, center.Render(line))
		}
		components = append(components, strings.Join(lines, "\n"))

		components = append(components, center.Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).
			Render(fmt.Sprintf("Started at %s", e.StartedAt.Format("15:04:05"))))
	}

	if s := m.session(); s != nil {
		day := fmt.Sprintf("Day %s · started %s", s.SessionDate, parser.FormatClock(s.StartedAt))
		if s.EndedAt != nil {
			day += fmt.Sprintf(" · stopped %s", parser.FormatClock(*s.EndedAt))
		}
		day += fmt.Sprintf(" · %s", formatHours(m.sessionHours()))
		components = append(components, center.Foreground(lipgloss.Color(ColorSecondaryText)).Render(day))
	}

	switch m.mode {
	case modeNewEntry:
		components = append(components, m.renderNewEntryForm(width))
	case modeConfirmStopDay:
		components = append(components, center.Foreground(lipgloss.Color(ColorWarning)).Bold(true).
			Render("Stop the day now? (y/N)"))
	}

	if m.err != nil {
		components = append(components, center.Foreground(lipgloss.Color(ColorError)).Render("✗ "+m.err.Error()))
	} else if m.message != "" {
		components = append(components, center.Foreground(lipgloss.Color(ColorSuccess)).Render(m.message))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func (m TrackerModel) renderNewEntryForm(width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(0, 1).
		Width(min(width-4, 60))

	var chips []string
	for i, name := range m.categories {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
		if i == m.category {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Underline(true)
		}
		chips = append(chips, style.Render(name))
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		"",
		"Category: "+strings.Join(chips, "  "),
	))
}

// renderTodayPanel lists today's entries
func (m TrackerModel) renderTodayPanel(width, height int) string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-4).
		Padding(0, 1)
	b.WriteString(title.Render("Today"))
	b.WriteString("\n\n")

	if m.status == nil || len(m.status.Today) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Italic(true).Render("No entries yet."))
		return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
	}

	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	projectStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	hoursStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))

	var total float64
	for _, e := range m.status.Today {
		end := "running"
		hours := m.engine.Now().Sub(e.StartedAt).Hours()
		if e.EndedAt != nil {
			end = parser.FormatClock(*e.EndedAt)
			hours = *e.DurationHours
		}
		total += hours

		line := fmt.Sprintf("%s  %s  %s  %s",
			timeStyle.Render(fmt.Sprintf("%s-%-7s", parser.FormatClock(e.StartedAt), end)),
			projectStyle.Render(truncate(e.Project, width-40)),
			categoryStyle.Render("#"+e.Category),
			hoursStyle.Render(formatHours(hours)),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorSuccess)).
		Render(fmt.Sprintf("Tracked today: %s", formatHours(total))))

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

func (m TrackerModel) sessionHours() float64 {
	s := m.session()
	if s == nil {
		return 0
	}
	if s.TotalHours != nil {
		return *s.TotalHours
	}
	return m.engine.Now().Sub(s.StartedAt).Hours()
}

// renderHelpBar renders the help bar at the bottom
func (m TrackerModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "b start day · n new entry · s stop entry · d stop day · r refresh · q quit"
	if m.mode == modeNewEntry {
		helpText = "enter start · tab/shift+tab category · esc cancel"
	}

	return helpStyle.Render(helpText)
}

// bigClock renders elapsed time as block digits
func bigClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	// 5x5 glyphs
	digits := map[rune][5]string{
		'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
		'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
		'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
		'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
		'4': {"█   █", "█   █", "█████", "    █", "    █"},
		'5': {"█████", "█    ", "████ ", "    █", "████ "},
		'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
		'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
		'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
		'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
		':': {"     ", "  █  ", "     ", "  █  ", "     "},
	}

	timeStr := fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)

	var lines [5]strings.Builder
	for _, char := range timeStr {
		glyph := digits[char]
		for i := range lines {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

func formatHours(h float64) string {
	d := time.Duration(h * float64(time.Hour)).Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func truncate(s string, width int) string {
	if width < 4 {
		width = 4
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-3 {
		r = r[:width-3]
	}
	return string(r) + "..."
}
