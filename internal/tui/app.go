package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/jask/friendsearch/internal/panel"
	"github.com/jask/friendsearch/internal/search"
	"github.com/jask/friendsearch/internal/service"
)

const (
	columns     = 9
	cellWidth   = 12
	refreshRate = 50 * time.Millisecond
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	cellStyle    = lipgloss.NewStyle().Width(cellWidth).Border(lipgloss.RoundedBorder()).Padding(0, 0)
	cursorStyle  = cellStyle.BorderForeground(lipgloss.Color("214"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	controlStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
)

type keyMap struct {
	Submit key.Binding
	Toggle key.Binding
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search / add")),
		Toggle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "query / results")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "right")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

type focus int

const (
	focusQuery focus = iota
	focusGrid
)

// Target identifies who is searching and for which friend list.
type Target struct {
	Actor    uuid.UUID
	Name     string
	Mode     search.Mode
	Resource *string

	// Query prefills the prompt. Remember, when set, is called with each
	// query that produced a panel.
	Query    string
	Remember func(query string)
}

// App is the friend search panel.
type App struct {
	ctx    context.Context
	svc    *service.FriendSearch
	target Target
	keys   keyMap

	input  textinput.Model
	focus  focus
	grid   *panel.Grid
	job    *panel.Job
	cursor int
	status string
	err    error
}

type (
	refreshMsg struct{ job *panel.Job }
	jobDoneMsg struct{ job *panel.Job }
)

func New(ctx context.Context, svc *service.FriendSearch, target Target) *App {
	inp := textinput.New()
	inp.Placeholder = "player name"
	inp.Prompt = "> "
	inp.CharLimit = 16
	inp.SetValue(target.Query)
	inp.Focus()
	svc.Open(target.Actor, target.Mode, target.Resource)
	return &App{
		ctx:    ctx,
		svc:    svc,
		target: target,
		keys:   defaultKeys(),
		input:  inp,
	}
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(m)
	case refreshMsg:
		if m.job != a.job || a.job == nil {
			return a, nil
		}
		select {
		case <-m.job.Done():
			return a, nil
		default:
			return a, refresh(m.job)
		}
	case jobDoneMsg:
		if m.job == a.job && m.job.Stage() == panel.StageRendered {
			a.status = fmt.Sprintf("%d shown", m.job.Shown())
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		a.svc.Close(a.target.Actor)
		return a, tea.Quit
	case key.Matches(m, a.keys.Back):
		if a.focus == focusGrid {
			a.setFocus(focusQuery)
			return a, nil
		}
		a.svc.Close(a.target.Actor)
		return a, tea.Quit
	case key.Matches(m, a.keys.Toggle):
		if a.focus == focusQuery && a.grid != nil {
			a.setFocus(focusGrid)
		} else {
			a.setFocus(focusQuery)
		}
		return a, nil
	}

	if a.focus == focusQuery {
		if key.Matches(m, a.keys.Submit) {
			return a, a.runSearch()
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(m)
		return a, cmd
	}

	switch {
	case key.Matches(m, a.keys.Submit):
		return a, a.click()
	case key.Matches(m, a.keys.Left):
		a.moveCursor(-1)
	case key.Matches(m, a.keys.Right):
		a.moveCursor(1)
	case key.Matches(m, a.keys.Up):
		a.moveCursor(-columns)
	case key.Matches(m, a.keys.Down):
		a.moveCursor(columns)
	}
	return a, nil
}

func (a *App) setFocus(f focus) {
	a.focus = f
	if f == focusQuery {
		a.input.Focus()
	} else {
		a.input.Blur()
	}
}

func (a *App) moveCursor(delta int) {
	if a.grid == nil {
		return
	}
	next := a.cursor + delta
	if next < 0 || next >= a.grid.Size() {
		return
	}
	a.cursor = next
}

// runSearch filters and paints placeholders on the update path, then
// follows the detail stage with refresh ticks.
func (a *App) runSearch() tea.Cmd {
	query := strings.TrimSpace(a.input.Value())
	res, err := a.svc.Search(a.ctx, a.target.Actor, query)
	if err != nil {
		a.err = err
		a.grid, a.job = nil, nil
		switch {
		case errors.Is(err, service.ErrNoSession):
			a.status = "search panel expired; reopening"
			a.svc.Open(a.target.Actor, a.target.Mode, a.target.Resource)
		case errors.Is(err, search.ErrMissingTarget):
			a.status = "no protected block selected"
		default:
			a.status = "search failed"
		}
		return nil
	}
	a.err = nil
	if a.target.Remember != nil {
		a.target.Remember(query)
	}
	a.grid, a.job = res.Grid, res.Job
	a.cursor = 0
	a.status = fmt.Sprintf("%d matches, loading %d", res.Total, res.Shown)
	if res.Shown > 0 {
		a.setFocus(focusGrid)
	}
	return tea.Batch(refresh(res.Job), waitForJob(res.Job))
}

func (a *App) click() tea.Cmd {
	res, err := a.svc.Click(a.ctx, a.target.Actor, a.cursor)
	if err != nil {
		a.err = err
		a.status = "could not add friend"
		return nil
	}
	switch res.Action {
	case service.ActionAdded:
		a.status = fmt.Sprintf("added %s", res.Friend.Label())
		a.reset()
	case service.ActionBack:
		a.status = ""
		a.reset()
	case service.ActionIgnored:
	}
	return nil
}

// reset returns to the query prompt with a fresh session.
func (a *App) reset() {
	a.grid, a.job = nil, nil
	a.cursor = 0
	a.input.SetValue("")
	a.setFocus(focusQuery)
	a.svc.Open(a.target.Actor, a.target.Mode, a.target.Resource)
}

func refresh(job *panel.Job) tea.Cmd {
	return tea.Tick(refreshRate, func(time.Time) tea.Msg { return refreshMsg{job: job} })
}

func waitForJob(job *panel.Job) tea.Cmd {
	return func() tea.Msg {
		<-job.Done()
		return jobDoneMsg{job: job}
	}
}

func (a *App) View() string {
	var b strings.Builder
	title := "Add friend"
	if a.target.Mode == search.ModeRelationSearch && a.target.Resource != nil {
		title = fmt.Sprintf("Add friend to %s", *a.target.Resource)
	}
	b.WriteString(titleStyle.Render(title))
	if a.target.Name != "" {
		b.WriteString(statusStyle.Render(" as " + a.target.Name))
	}
	b.WriteString("\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")
	if a.grid != nil {
		b.WriteString(a.renderGrid())
		b.WriteString("\n")
	}
	if a.err != nil {
		b.WriteString(errorStyle.Render(a.status + ": " + a.err.Error()))
	} else {
		b.WriteString(statusStyle.Render(a.status))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("enter search/add · tab switch · arrows move · esc back"))
	return b.String()
}

func (a *App) renderGrid() string {
	tiles := a.grid.Snapshot()
	var rows []string
	for start := 0; start < len(tiles); start += columns {
		end := min(start+columns, len(tiles))
		cells := make([]string, 0, columns)
		for i := start; i < end; i++ {
			style := cellStyle
			if a.focus == focusGrid && i == a.cursor {
				style = cursorStyle
			}
			cells = append(cells, style.Render(renderTile(tiles[i])))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderTile(t panel.Tile) string {
	switch t := t.(type) {
	case panel.EmptyTile:
		return ""
	case panel.ControlTile:
		switch t.Control {
		case panel.ControlBack:
			return controlStyle.Render("« " + t.Label)
		default:
			return controlStyle.Render("? " + truncate(t.Label, cellWidth-2))
		}
	case panel.PendingTile:
		return pendingStyle.Render("☠ " + truncate(t.Label, cellWidth-2))
	case panel.EntityTile:
		glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Appearance.Color)).Bold(true).Render(t.Appearance.Glyph)
		name := truncate(t.Entity.Label(), cellWidth-2)
		if t.Entity.Online {
			name = onlineStyle.Render(name)
		}
		return glyph + " " + name
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
