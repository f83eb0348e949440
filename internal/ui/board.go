// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/storykit/internal/story"
)

// Lister returns every story record.
type Lister interface {
	List(ctx context.Context) ([]story.Story, error)
}

// BoardOption configures the board.
type BoardOption func(*boardConfig)

type boardConfig struct {
	interval   time.Duration
	typeFilter story.Type
}

// WithRefreshInterval sets how often the board re-reads the records.
func WithRefreshInterval(d time.Duration) BoardOption {
	return func(c *boardConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithTypeFilter limits the board to one story type.
func WithTypeFilter(t story.Type) BoardOption {
	return func(c *boardConfig) {
		c.typeFilter = t
	}
}

// RunBoard shows stories grouped by status until the user quits.
func RunBoard(ctx context.Context, stories Lister, opts ...BoardOption) error {
	if !IsTTY(os.Stdout) {
		return errors.New("board requires a TTY")
	}
	model := newBoardModel(ctx, stories, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

const (
	defaultColumnWidth = 30
	maxCardsPerColumn  = 20
)

type boardModel struct {
	ctx        context.Context
	stories    Lister
	interval   time.Duration
	typeFilter story.Type
	filter     story.Status
	showHelp   bool
	width      int

	loadErr   error
	columns   map[story.Status][]story.Story
	updatedAt time.Time
}

type tickMsg time.Time

func newBoardModel(ctx context.Context, stories Lister, opts ...BoardOption) *boardModel {
	c := &boardConfig{interval: 2 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return &boardModel{
		ctx:        ctx,
		stories:    stories,
		interval:   c.interval,
		typeFilter: c.typeFilter,
	}
}

func (m *boardModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.interval)
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "t":
			m.typeFilter = nextType(m.typeFilter)
			m.refresh()
		case "1", "2", "3", "4":
			m.filter = story.Statuses()[msg.String()[0]-'1']
		case "0":
			m.filter = ""
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.interval)
	}
	return m, nil
}

func (m *boardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("storykit board") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.interval)
		return b.String()
	}

	if filters := m.filterLine(); filters != "" {
		b.WriteString(filters + "\n\n")
	}
	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading records:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.interval)
		return b.String()
	}
	if m.columns == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.interval)
		return b.String()
	}

	b.WriteString(m.overview() + "\n\n")
	b.WriteString(m.board() + "\n\n")
	writeFooter(&b, m.interval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *boardModel) refresh() {
	all, err := m.stories.List(m.ctx)
	if err != nil {
		m.loadErr = err
		m.columns = nil
		return
	}
	m.loadErr = nil
	m.columns = groupByStatus(all, m.typeFilter)
	m.updatedAt = time.Now()
}

// groupByStatus buckets stories by status, keeping list order within a bucket.
func groupByStatus(all []story.Story, t story.Type) map[story.Status][]story.Story {
	cols := make(map[story.Status][]story.Story, len(story.Statuses()))
	for _, s := range story.Statuses() {
		cols[s] = nil
	}
	for _, st := range all {
		if t != "" && st.Type != t {
			continue
		}
		cols[st.Status] = append(cols[st.Status], st)
	}
	return cols
}

func nextType(t story.Type) story.Type {
	types := story.Types()
	if t == "" {
		return types[0]
	}
	for i, candidate := range types {
		if candidate == t && i+1 < len(types) {
			return types[i+1]
		}
	}
	return ""
}

func (m *boardModel) filterLine() string {
	var parts []string
	if m.typeFilter != "" {
		parts = append(parts, "type "+string(m.typeFilter))
	}
	if m.filter != "" {
		parts = append(parts, "status "+string(m.filter))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filter: " + strings.Join(parts, ", ") + Muted(" (0 clears status, t cycles type)")
}

func (m *boardModel) overview() string {
	parts := make([]string, 0, len(story.Statuses()))
	for _, s := range story.Statuses() {
		parts = append(parts, fmt.Sprintf("%s: %d", StatusLabel(s), len(m.columns[s])))
	}
	return "  " + strings.Join(parts, "  ")
}

func (m *boardModel) visibleStatuses() []story.Status {
	if m.filter != "" {
		return []story.Status{m.filter}
	}
	return story.Statuses()
}

func (m *boardModel) columnWidth(n int) int {
	if m.width <= 0 {
		return defaultColumnWidth
	}
	// Border and padding take four cells per column.
	w := m.width/n - 4
	if w < 12 {
		w = 12
	}
	return w
}

func (m *boardModel) board() string {
	statuses := m.visibleStatuses()
	width := m.columnWidth(len(statuses))
	cols := make([]string, 0, len(statuses))
	for _, s := range statuses {
		cols = append(cols, columnStyle.Width(width).Render(renderColumn(s, m.columns[s], width)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderColumn(s story.Status, stories []story.Story, width int) string {
	lines := []string{StatusBadge(s) + Muted(fmt.Sprintf(" (%d)", len(stories))), ""}
	if len(stories) == 0 {
		lines = append(lines, Muted("nothing here"))
	}
	for i, st := range stories {
		if i == maxCardsPerColumn {
			lines = append(lines, Muted(fmt.Sprintf("+%d more", len(stories)-i)))
			break
		}
		lines = append(lines, formatCard(st, width))
	}
	return strings.Join(lines, "\n")
}

func formatCard(st story.Story, width int) string {
	done, total := story.Progress(st.Tasks)
	head := fmt.Sprintf("%s %s", typeMarker(st.Type), st.ID)
	progress := fmt.Sprintf("%d/%d", done, total)
	title := truncate(st.Title, width-len([]rune(head))-len(progress)-2)
	return head + " " + title + " " + Muted(progress)
}

func typeMarker(t story.Type) string {
	switch t {
	case story.TypeUserStory:
		return "S"
	case story.TypeTask:
		return "T"
	case story.TypeBug:
		return "B"
	}
	return "?"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 1 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh now\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  t            Cycle story type filter\n")
	b.WriteString("  1            Only todo\n")
	b.WriteString("  2            Only in-progress\n")
	b.WriteString("  3            Only review\n")
	b.WriteString("  4            Only done\n")
	b.WriteString("  0            Clear status filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(Muted(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s", interval)) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
