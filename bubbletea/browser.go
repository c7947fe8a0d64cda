// Package bubbletea provides an interactive terminal browser for skill
// reports using the Bubble Tea framework.
package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fwojciec/skillreview"
	"github.com/fwojciec/skillreview/render"
)

// snippetIndent is the column where fix snippet text starts, which affects
// how leading tabs expand.
const snippetIndent = 4

// Model is the Bubble Tea model for browsing a skill report.
type Model struct {
	report   *skillreview.SkillReport
	findings []skillreview.Finding // sorted most severe first

	// Line offset of each finding's badge line in the content.
	positions []int
	content   string

	clipboard skillreview.Clipboard

	// UI state
	viewport   viewport.Model
	keymap     KeyMap
	styles     skillreview.Styles
	renderer   *lipgloss.Renderer
	width      int
	ready      bool
	pendingKey string
	status     string // transient message shown until the next key press
}

// ModelOption configures a Model.
type ModelOption func(*modelConfig)

type modelConfig struct {
	renderer  *lipgloss.Renderer
	theme     skillreview.Theme
	clipboard skillreview.Clipboard
}

// WithRenderer sets a custom lipgloss renderer for the model.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(cfg *modelConfig) {
		cfg.renderer = r
	}
}

// WithTheme sets the theme for severity badges and accents.
func WithTheme(t skillreview.Theme) ModelOption {
	return func(cfg *modelConfig) {
		cfg.theme = t
	}
}

// WithClipboard enables the yank binding for copying fix snippets.
func WithClipboard(c skillreview.Clipboard) ModelOption {
	return func(cfg *modelConfig) {
		cfg.clipboard = c
	}
}

// NewModel creates a new Model with the given report.
func NewModel(report *skillreview.SkillReport, opts ...ModelOption) Model {
	cfg := &modelConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var styles skillreview.Styles
	if cfg.theme != nil {
		styles = cfg.theme.Styles()
	}

	var findings []skillreview.Finding
	if report != nil {
		findings = render.SortFindings(report.Findings)
	}

	m := Model{
		report:    report,
		findings:  findings,
		clipboard: cfg.clipboard,
		keymap:    DefaultKeyMap(),
		styles:    styles,
		renderer:  cfg.renderer,
	}
	m.content, m.positions = m.buildContent()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""

		// Handle multi-key sequences (gg for go to top)
		if m.pendingKey == "g" && key.Matches(msg, m.keymap.GotoTop) {
			m.viewport.GotoTop()
			m.pendingKey = ""
			return m, nil
		}

		// Check for start of multi-key sequence
		if key.Matches(msg, m.keymap.GotoTop) {
			m.pendingKey = "g"
			return m, nil
		}

		// Clear pending key on any other key press
		m.pendingKey = ""

		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.GotoBottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageUp):
			m.viewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageDown):
			m.viewport.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keymap.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keymap.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		case key.Matches(msg, m.keymap.NextFinding):
			m.gotoNextFinding()
			return m, nil
		case key.Matches(msg, m.keymap.PrevFinding):
			m.gotoPrevFinding()
			return m, nil
		case key.Matches(msg, m.keymap.Yank):
			m.yankFix()
			return m, nil
		}
	case tea.WindowSizeMsg:
		statusBarHeight := 1
		m.width = msg.Width

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-statusBarHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - statusBarHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.statusBarView())
}

// FindingPositions returns the content line offset of each finding, in
// display order.
func (m Model) FindingPositions() []int {
	return m.positions
}

// buildContent renders the report into scrollable content and records the
// line offset where each finding starts. Content is width-independent; the
// viewport truncates long lines.
func (m Model) buildContent() (string, []int) {
	if m.report == nil {
		return "", nil
	}

	titleStyle := m.newStyle().Bold(true)
	locationStyle := m.styleFor(m.styles.Location)
	mutedStyle := m.styleFor(m.styles.Muted)
	failureStyle := m.styleFor(m.styles.Failure)

	var sb strings.Builder
	var positions []int
	line := 0
	write := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\n")
		line++
	}

	write(titleStyle.Render(m.report.Skill))
	write(mutedStyle.Render(m.report.Summary))

	for _, f := range m.findings {
		write("")
		positions = append(positions, line)

		badge := m.styleFor(m.styles.Badge(f.Severity))
		write(badge.Render(" "+strings.ToUpper(string(f.Severity))+" ") + " " + titleStyle.Render(f.Title))

		if f.Location != nil {
			write("  " + locationStyle.Render(formatLocation(*f.Location)))
		}
		if f.Description != "" {
			for _, l := range strings.Split(strings.TrimRight(f.Description, "\n"), "\n") {
				write("  " + l)
			}
		}
		if f.Fix != nil && f.Fix.Replacement != "" {
			write("  " + mutedStyle.Render("suggested fix:"))
			for _, l := range strings.Split(strings.TrimRight(f.Fix.Replacement, "\n"), "\n") {
				write("    " + ExpandTabs(l, snippetIndent))
			}
		}
	}

	if len(m.report.Failures) > 0 {
		write("")
		write(failureStyle.Render("analysis failures:"))
		for _, fail := range m.report.Failures {
			write("  " + failureStyle.Render(fail.Path+": "+fail.Message))
		}
	}

	return sb.String(), positions
}

// gotoNextFinding scrolls to the finding after the current one.
func (m *Model) gotoNextFinding() {
	current, total := m.currentFinding()
	if total == 0 || current >= total {
		return
	}
	m.viewport.SetYOffset(m.positions[current])
}

// gotoPrevFinding scrolls to the finding before the current one.
func (m *Model) gotoPrevFinding() {
	current, _ := m.currentFinding()
	if current <= 1 {
		return
	}
	m.viewport.SetYOffset(m.positions[current-2])
}

// yankFix copies the current finding's suggested fix to the clipboard.
func (m *Model) yankFix() {
	if m.clipboard == nil {
		return
	}
	current, total := m.currentFinding()
	if total == 0 {
		return
	}
	f := m.findings[current-1]
	if f.Fix == nil || f.Fix.Replacement == "" {
		m.status = "no fix to copy"
		return
	}
	if err := m.clipboard.Copy(f.Fix.Replacement); err != nil {
		m.status = "copy failed"
		return
	}
	m.status = "fix copied"
}

// currentFinding returns the 1-based index of the finding at or above the
// top of the viewport, and the total finding count.
func (m Model) currentFinding() (current, total int) {
	total = len(m.positions)
	if total == 0 {
		return 0, 0
	}

	currentLine := m.viewport.YOffset
	current = 1
	for i, pos := range m.positions {
		if pos <= currentLine {
			current = i + 1
		} else {
			break
		}
	}
	return current, total
}

// newStyle creates a new lipgloss style using the model's renderer.
func (m Model) newStyle() lipgloss.Style {
	if m.renderer != nil {
		return m.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// styleFor creates a style from a color pair using the model's renderer.
func (m Model) styleFor(cp skillreview.ColorPair) lipgloss.Style {
	style := m.newStyle()
	if cp.Foreground != "" {
		style = style.Foreground(lipgloss.Color(cp.Foreground))
	}
	if cp.Background != "" {
		style = style.Background(lipgloss.Color(cp.Background))
	}
	return style
}

// statusBarView renders the status bar with position info and key hints.
func (m Model) statusBarView() string {
	barStyle := m.styleFor(m.styles.Header)
	dimStyle := m.styleFor(m.styles.Muted)

	current, total := m.currentFinding()
	width := digitWidth(total)
	findingPos := fmt.Sprintf("finding %*d/%-*d", width, current, width, total)

	sep := dimStyle.Render(" │ ")
	content := barStyle.Render(findingPos) + sep +
		barStyle.Render(m.scrollPosition()) + sep
	if m.status != "" {
		content += barStyle.Render(m.status) + sep
	}
	content += dimStyle.Render("j/k:scroll  n/N:finding  y:yank fix  q:quit") +
		barStyle.Render("  ")

	// Right-align by padding the left side
	contentWidth := lipgloss.Width(content)
	if m.width > contentWidth {
		content = barStyle.Render(strings.Repeat(" ", m.width-contentWidth)) + content
	}
	return content
}

// scrollPosition returns a string indicating the scroll position.
func (m Model) scrollPosition() string {
	if m.viewport.AtTop() {
		return "Top"
	}
	if m.viewport.AtBottom() {
		return "Bot"
	}
	percent := int(m.viewport.ScrollPercent() * 100)
	return fmt.Sprintf("%2d%%", percent)
}

// formatLocation formats a location as path:line or path:start-end.
func formatLocation(loc skillreview.Location) string {
	if loc.EndLine > loc.StartLine {
		return fmt.Sprintf("%s:%d-%d", loc.Path, loc.StartLine, loc.EndLine)
	}
	return fmt.Sprintf("%s:%d", loc.Path, loc.StartLine)
}

// digitWidth returns the number of digits needed to display n.
func digitWidth(n int) int {
	if n <= 0 {
		return 1
	}
	width := 0
	for n > 0 {
		width++
		n /= 10
	}
	return width
}

// Browser implements skillreview.ReportBrowser using a Bubble Tea TUI.
type Browser struct {
	programOptions []tea.ProgramOption
	modelOptions   []ModelOption
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithProgramOptions sets additional Bubble Tea program options, used by
// tests to redirect program IO.
func WithProgramOptions(opts ...tea.ProgramOption) BrowserOption {
	return func(b *Browser) {
		b.programOptions = opts
	}
}

// WithModelOptions sets the options applied to each report's model.
func WithModelOptions(opts ...ModelOption) BrowserOption {
	return func(b *Browser) {
		b.modelOptions = opts
	}
}

// NewBrowser creates a new Browser.
func NewBrowser(opts ...BrowserOption) *Browser {
	b := &Browser{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Browse displays the report and blocks until the user exits.
func (b *Browser) Browse(ctx context.Context, report *skillreview.SkillReport) error {
	m := NewModel(report, b.modelOptions...)
	opts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, b.programOptions...)
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	return err
}
