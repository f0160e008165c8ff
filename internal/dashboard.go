package loadtop

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
)

const (
	tabChart   = "Chart"
	tabSamples = "Samples"
)

type loadedMsg struct {
	series Series
}

type loadFailedMsg struct {
	err error
}

type dashboardModel struct {
	ctx      context.Context
	source   Source
	renderer *ChartRenderer
	logger   logr.Logger
	tabs     *TabSet

	series  *Series
	chart   ChartHandle
	err     error
	loading bool
	cursor  int // hovered sample, -1 for none

	chartWidth  int
	chartHeight int
	width       int
	height      int
	ready       bool
}

// newDashboard returns the dashboard model. The chart keeps chartWidth x
// chartHeight cells unless the renderer options make it responsive.
func newDashboard(ctx context.Context, source Source, renderer *ChartRenderer, chartWidth, chartHeight int, logger logr.Logger) *dashboardModel {
	return &dashboardModel{
		ctx:         ctx,
		source:      source,
		renderer:    renderer,
		logger:      logger.WithName("dashboard"),
		tabs:        NewTabSet(tabChart, tabSamples),
		loading:     true,
		cursor:      -1,
		chartWidth:  chartWidth,
		chartHeight: chartHeight,
	}
}

// fetchCmd runs one fetch off the update loop
func fetchCmd(ctx context.Context, source Source) tea.Cmd {
	return func() tea.Msg {
		series, err := source.FetchLoad(ctx)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return loadedMsg{series: series}
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return fetchCmd(m.ctx, m.source)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			// a new, independent fetch-render cycle
			m.loading = true
			return m, fetchCmd(m.ctx, m.source)
		case "h", "left":
			m = m.moveCursor(-1)
		case "l", "right":
			m = m.moveCursor(1)
		case "g", "home":
			m = m.setCursor(0)
		case "G", "end":
			if m.chart != nil {
				m = m.setCursor(m.chart.Len() - 1)
			}
		case "esc":
			m = m.setCursor(-1)
		case "[":
			m.tabs.PrevTab()
		case "]":
			m.tabs.NextTab()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.renderer.Options().Responsive && m.series != nil {
			m = m.render()
		}

	case loadedMsg:
		m.loading = false
		m.err = nil
		m.series = &msg.series
		m.cursor = -1
		m = m.render()

	case loadFailedMsg:
		m.loading = false
		m.err = msg.err
		m.series = nil
		m.chart = nil
		m.logger.Error(msg.err, "load failed", "source", m.source.Name())
	}

	return m, nil
}

// chartSize returns the surface size for the next render
func (m dashboardModel) chartSize() (int, int) {
	if m.renderer.Options().Responsive && m.ready {
		// pane borders and padding, header, tabs, tooltip and help lines
		return max(m.width-4, 1), max(m.height-10, 1)
	}
	return m.chartWidth, m.chartHeight
}

func (m dashboardModel) render() dashboardModel {
	w, h := m.chartSize()
	chart, err := m.renderer.RenderChart(*m.series, NewSurface(SURFACE_ID, w, h))
	if err != nil {
		m.logger.Error(err, "rendering chart", "width", w, "height", h)
		m.err = err
		m.chart = nil
		return m
	}
	m.chart = chart
	if m.cursor >= chart.Len() {
		m.cursor = -1
	}
	if m.cursor >= 0 {
		chart.Hover(m.cursor)
	}
	return m
}

func (m dashboardModel) moveCursor(delta int) dashboardModel {
	if m.chart == nil || m.chart.Len() == 0 {
		return m
	}
	n := m.chart.Len()
	switch {
	case m.cursor < 0 && delta > 0:
		return m.setCursor(0)
	case m.cursor < 0:
		return m.setCursor(n - 1)
	}
	return m.setCursor(max(0, min(n-1, m.cursor+delta)))
}

func (m dashboardModel) setCursor(i int) dashboardModel {
	if m.chart == nil || i >= m.chart.Len() {
		return m
	}
	if err := m.chart.Hover(i); err != nil {
		m.logger.Error(err, "hover")
		return m
	}
	m.cursor = max(i, -1)
	return m
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
	header := headerStyle.Render(m.source.Name())
	if m.loading {
		header += lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("  loading...")
	}

	paneWidth := max(m.width-2, 1)
	paneHeight := max(m.height-7, 1)

	var content string
	switch m.tabs.Selected() {
	case tabSamples:
		content = m.renderSamples(paneHeight)
	default:
		content = m.renderChart()
	}
	pane := NewPane(m.tabs.Selected(), paneWidth, paneHeight).SetContent(content).SetFocused(true)

	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Background(lipgloss.Color("235")).
		Width(m.width).
		Align(lipgloss.Center).
		Render("hl/arrows=Hover  []=Switch Tabs  r=Reload  q=Quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, m.tabs.Render(), pane.Render(), helpBar)
}

func (m dashboardModel) renderChart() string {
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		return errStyle.Render(fmt.Sprintf("Failed to load: %v", m.err))
	}
	if m.chart == nil {
		return "Waiting for data..."
	}

	view := m.chart.Surface().String()
	if tip, ok := m.chart.Tooltip(m.cursor); ok {
		tipStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
		view += "\n" + tipStyle.Render(tip)
	}
	return view
}

func (m dashboardModel) renderSamples(height int) string {
	if m.series == nil {
		return "Waiting for data..."
	}
	n := m.series.Len()
	if n <= 0 {
		return "No samples"
	}

	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			m.series.Time[i],
			fmt.Sprintf("%.1f%%", m.series.CPU[i]),
			fmt.Sprintf("%.1f%%", m.series.Mem[i]),
		})
	}

	return NewWrapTable().
		MaxHeight(height).
		Headers("Time", "CPU", "MEM").
		Rows(rows...).
		Render()
}

// Dashboard runs the interactive dashboard until the user quits or ctx ends
func Dashboard(ctx context.Context, source Source, renderer *ChartRenderer, chartWidth, chartHeight int, logger logr.Logger) error {
	m := newDashboard(ctx, source, renderer, chartWidth, chartHeight, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	return dashboardExit(ctx, err)
}

// dashboardExit treats the program being killed by ctx as a normal exit
func dashboardExit(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("running dashboard: %w", err)
}
