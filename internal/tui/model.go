// Package tui is the Bubble Tea attendance dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/report"
)

// Tab identifies which table is shown.
type Tab int

const (
	TabDaily Tab = iota
	TabBuilders
)

var tabNames = [...]string{report.DailyTitle, report.BuildersTitle}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "unknown"
	}
	return tabNames[t]
}

// Loader fetches a fresh report. It is called on start and on every reload.
type Loader func(ctx context.Context) (*model.Report, error)

// chromeHeight is the rows taken by the title, tabs, summary and help.
const chromeHeight = 8

// Model holds the dashboard state.
type Model struct {
	ctx      context.Context
	loadedAt time.Time
	loader   Loader
	report   *model.Report
	err      error
	help     help.Model
	config   Config
	keymap   KeyMap
	tables   [2]table.Model
	tab      Tab
	width    int
	height   int
	loading  bool
	quitting bool
}

// NewModel creates a dashboard that loads its data through loader.
func NewModel(ctx context.Context, loader Loader, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected

	m := Model{
		ctx:     ctx,
		loader:  loader,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		width:   cfg.Width,
		height:  cfg.Height,
		loading: true,
	}
	for i := range m.tables {
		m.tables[i] = table.New(table.WithStyles(styles), table.WithFocused(i == int(TabDaily)))
	}
	m.resize()
	return m
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		rpt, err := loader(ctx)
		return reportLoadedMsg{report: rpt, err: err, loadedAt: time.Now()}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case reportLoadedMsg:
		m.loading = false
		m.loadedAt = msg.loadedAt
		m.err = msg.err
		if msg.err == nil && msg.report != nil {
			m.report = msg.report
			m.fill()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.NextTab):
			m.switchTab((m.tab + 1) % Tab(len(tabNames)))
			return m, nil
		case key.Matches(msg, m.keymap.PrevTab):
			m.switchTab((m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
			return m, nil
		case key.Matches(msg, m.keymap.Reload):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.load()
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tables[m.tab], cmd = m.tables[m.tab].Update(msg)
	return m, cmd
}

func (m *Model) switchTab(t Tab) {
	m.tables[m.tab].Blur()
	m.tab = t
	m.tables[m.tab].Focus()
}

// fill replaces both tables' rows from the current report.
func (m *Model) fill() {
	for i, t := range []report.Table{report.DailyTable(m.report), report.BuilderTable(m.report)} {
		rows := t.Strings()
		tableRows := make([]table.Row, len(rows))
		for j, r := range rows {
			tableRows[j] = r
		}
		// Columns first: SetRows renders against the current column count.
		m.tables[i].SetRows(nil)
		m.tables[i].SetColumns(columns(t.Header, rows))
		m.tables[i].SetRows(tableRows)
	}
}

func (m *Model) resize() {
	h := max(m.height-chromeHeight, 3)
	for i := range m.tables {
		m.tables[i].SetHeight(h)
		m.tables[i].SetWidth(m.width)
	}
}

// columns sizes each column to its widest cell.
func columns(header []string, rows [][]string) []table.Column {
	cols := make([]table.Column, len(header))
	for i, h := range header {
		width := len([]rune(h))
		for _, r := range rows {
			if i < len(r) {
				width = max(width, len([]rune(r[i])))
			}
		}
		cols[i] = table.Column{Title: h, Width: width + 1}
	}
	return cols
}

// Tab returns the active tab.
func (m Model) Tab() Tab { return m.tab }

// Report returns the last successfully loaded report.
func (m Model) Report() *model.Report { return m.report }

// Err returns the error of the last load, if any.
func (m Model) Err() error { return m.err }
