package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-groove/config"
	"go-groove/debug"
	"go-groove/notation"
	"go-groove/pattern"
	"go-groove/sequencer"
	"go-groove/theme"
	"go-groove/widgets"
)

const (
	tempoStep    = 5
	sidebarWidth = 30
	saveDelay    = 500 * time.Millisecond
)

type itemKind int

const (
	itemGroup itemKind = iota
	itemSubgroup
	itemPattern
)

// item is one line of the sidebar tree
type item struct {
	kind    itemKind
	label   string
	pattern *pattern.Pattern
}

type Model struct {
	Sched  *sequencer.Scheduler
	Theme  *theme.Theme
	Config *config.Config

	items    []item
	cursor   int // index into items, always on a pattern
	tempo    int
	grid     widgets.Grid
	gridErr  error
	err      error
	keys     keyMap
	help     help.Model
	save     func(f func())
	quitting bool
}

type UpdateMsg struct{}

// NewModel builds the browser over lib. cfg may be nil, in which case
// nothing is persisted.
func NewModel(sched *sequencer.Scheduler, lib *pattern.Library, th *theme.Theme, cfg *config.Config) Model {
	m := Model{
		Sched:  sched,
		Theme:  th,
		Config: cfg,
		items:  buildItems(lib),
		cursor: -1,
		keys:   defaultKeys(),
		help:   help.New(),
		save:   debounce.New(saveDelay),
	}

	last := ""
	if cfg != nil {
		last = cfg.UI.LastPattern
		sched.SetLoop(cfg.UI.Loop)
	}
	for i, it := range m.items {
		if it.kind != itemPattern {
			continue
		}
		if m.cursor < 0 || it.pattern.ID().String() == last {
			m.cursor = i
		}
		if it.pattern.ID().String() == last {
			break
		}
	}
	m.selectCurrent()
	if cfg != nil && last != "" && m.current() != nil && m.current().ID().String() == last && cfg.UI.LastTempo > 0 {
		m.tempo = cfg.UI.LastTempo
	}
	return m
}

func buildItems(lib *pattern.Library) []item {
	var items []item
	for _, g := range lib.Groups {
		items = append(items, item{kind: itemGroup, label: g.Name})
		for _, sg := range g.Subgroups {
			items = append(items, item{kind: itemSubgroup, label: sg.Name})
			for _, p := range sg.Patterns {
				items = append(items, item{kind: itemPattern, label: p.Title, pattern: p})
			}
		}
	}
	return items
}

func ListenForUpdates(sched *sequencer.Scheduler) tea.Cmd {
	return func() tea.Msg {
		<-sched.Updates()
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Sched)
}

func (m Model) current() *pattern.Pattern {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return m.items[m.cursor].pattern
}

// selectCurrent rebuilds the grid preview and takes the pattern's tempo.
func (m *Model) selectCurrent() {
	p := m.current()
	if p == nil {
		m.grid, m.gridErr = widgets.Grid{}, nil
		return
	}
	measures, err := notation.Quantize(p)
	m.grid, m.gridErr = widgets.BuildGrid(measures), err
	m.tempo = p.BPM
	if m.tempo <= 0 {
		m.tempo = sequencer.DefaultTempo
	}
}

// move steps the cursor to the next pattern item in direction dir.
func (m *Model) move(dir int) {
	for i := m.cursor + dir; i >= 0 && i < len(m.items); i += dir {
		if m.items[i].kind == itemPattern {
			m.cursor = i
			m.selectCurrent()
			return
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Sched.Stop()
			m.persist()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			m.move(-1)

		case key.Matches(msg, m.keys.Down):
			m.move(1)

		case key.Matches(msg, m.keys.Play):
			m.togglePlay()

		case key.Matches(msg, m.keys.Faster):
			m.setTempo(m.tempo + tempoStep)

		case key.Matches(msg, m.keys.Slower):
			m.setTempo(m.tempo - tempoStep)

		case key.Matches(msg, m.keys.Loop):
			m.Sched.SetLoop(!m.Sched.State().Loop)
			m.persist()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Sched)
	}

	return m, nil
}

func (m *Model) togglePlay() {
	p := m.current()
	if p == nil {
		return
	}
	st := m.Sched.State()
	if st.Playing && st.PatternID == p.ID().String() {
		m.Sched.Stop()
		return
	}
	if err := m.Sched.Play(p, m.tempo); err != nil {
		debug.Log(debug.Transport, "play %q: %v", p.Title, err)
		m.err = err
		return
	}
	m.persist()
}

func (m *Model) setTempo(bpm int) {
	bpm = max(sequencer.MinTempo, min(sequencer.MaxTempo, bpm))
	m.tempo = bpm
	if m.Sched.State().Playing {
		if err := m.Sched.SetTempo(bpm); err != nil {
			m.err = err
			return
		}
	}
	m.persist()
}

// persist saves UI state after a quiet period.
func (m *Model) persist() {
	if m.Config == nil {
		return
	}
	m.Config.UI.LastTempo = m.tempo
	m.Config.UI.Loop = m.Sched.State().Loop
	if p := m.current(); p != nil {
		m.Config.UI.LastPattern = p.ID().String()
	}
	snapshot := *m.Config
	m.save(func() {
		if err := snapshot.Save(); err != nil {
			debug.Log(debug.Config, "save: %v", err)
		}
	})
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Sched.State()
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	errStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())

	state := fmt.Sprintf("%c STOP", m.Theme.Symbols.Stopped)
	if st.Playing {
		state = fmt.Sprintf("%c %s", m.Theme.Symbols.Playing, st.Pattern)
	}
	loop := "off"
	if st.Loop {
		loop = "on"
	}
	header := headerStyle.Render(fmt.Sprintf("go-groove  %s  %3dbpm  loop:%s", state, m.tempo, loop))

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", m.preview(st))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")
	if m.err != nil {
		out.WriteString(errStyle.Render(m.err.Error()))
		out.WriteString("\n")
	}
	out.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return out.String()
}

func (m Model) sidebar() string {
	group := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	subgroup := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	normal := lipgloss.NewStyle().Foreground(m.Theme.FG())
	selected := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)

	var lines []string
	for i, it := range m.items {
		switch it.kind {
		case itemGroup:
			lines = append(lines, group.Render(it.label))
		case itemSubgroup:
			lines = append(lines, subgroup.Render(" "+it.label))
		default:
			if i == m.cursor {
				lines = append(lines, selected.Render("  > "+it.label))
			} else {
				lines = append(lines, normal.Render("    "+it.label))
			}
		}
	}
	return lipgloss.NewStyle().Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) preview(st sequencer.Transport) string {
	p := m.current()
	if p == nil {
		return ""
	}
	dim := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	if m.gridErr != nil {
		return dim.Render(m.gridErr.Error())
	}

	playing := st.Playing && st.PatternID == p.ID().String()
	playhead := m.grid.PlayheadColumn(st.Beat, playing)

	info := dim.Render(fmt.Sprintf("%s / %s  %s  %d bars  %d events",
		p.Group, p.Subgroup, p.TimeSignature, p.Length, p.NumEvents()))
	return info + "\n\n" + widgets.RenderGrid(m.Theme, m.grid, playhead)
}
