package sink

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"aegis-net/internal/physics"
	"aegis-net/internal/results"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a rendered row for the viewport.
type logMsg struct{ line string }

type impactMsg struct{ results.ImpactRow }

type deflectionMsg struct{ results.DeflectionRow }

const maxLogLines = 1000

// TUIWriter renders result rows using a bubbletea TUI.
type TUIWriter struct {
	program teaProgram
	done    chan struct{}
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. Done is
// closed when the user quits.
func NewTUIWriter() *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	p := tea.NewProgram(newTUIModel(), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
	}()
	return w
}

// Done is closed after the TUI exits.
func (w *TUIWriter) Done() <-chan struct{} { return w.done }

func (w *TUIWriter) WriteImpact(r results.ImpactRow) error {
	line := fmt.Sprintf("%s[%s]%s %sIMPACT%s %s%.0fm%s %s%.1fkm/s%s %s%s%s %senergy=%.3fMT%s blast=%.0fm crater=%.0fm %srisk=%s%s",
		colorGray, r.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, colorReset,
		colorCyan, r.AsteroidSize, colorReset,
		colorYellow, r.Velocity, colorReset,
		colorMagenta, r.Composition, colorReset,
		colorGreen, r.ImpactEnergy, colorReset,
		r.BlastRadius, r.CraterDiameter,
		riskColor(r.Risk), r.Risk, colorReset)
	w.program.Send(logMsg{line: line})
	w.program.Send(impactMsg{r})
	return nil
}

func (w *TUIWriter) WriteDeflection(r results.DeflectionRow) error {
	outcome, col := "fail", colorRed
	if r.Success {
		outcome, col = "ok", colorGreen
	}
	line := fmt.Sprintf("%s[%s]%s %sDEFLECT%s %s%s%s %.0fm lead=%.0fd deflection=%.2f° %s%s%s",
		colorGray, r.Timestamp.Format(time.RFC3339), colorReset,
		colorYellow, colorReset,
		colorCyan, r.Strategy, colorReset,
		r.AsteroidSize, r.TimeToImpactDays, r.Deflection,
		col, outcome, colorReset)
	w.program.Send(logMsg{line: line})
	w.program.Send(deflectionMsg{r})
	return nil
}

type tuiModel struct {
	table       table.Model
	vp          viewport.Model
	logs        []string
	wrap        bool
	autoscroll  bool
	height      int
	header      string
	impacts     int
	deflections int
	successes   int
	byRisk      map[string]int
	maxEnergy   float64
}

func newTUIModel() tuiModel {
	cols := []table.Column{
		{Title: "Strategy", Width: 18},
		{Title: "Eff.", Width: 6},
		{Title: "Cost $M", Width: 8},
		{Title: "Years", Width: 6},
		{Title: "Risk", Width: 8},
	}
	var rows []table.Row
	for _, s := range physics.Strategies() {
		rows = append(rows, table.Row{
			s.Name,
			fmt.Sprintf("%.1f", s.Effectiveness),
			fmt.Sprintf("%.0f", s.CostMUSD),
			fmt.Sprintf("%.0f", s.TimeRequiredYears),
			string(s.Risk),
		})
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		table:      t,
		vp:         viewport.New(0, 0),
		autoscroll: true,
		byRisk:     make(map[string]int),
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.height = msg.Height
		m.header = m.table.View()
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "a":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
		case "j", "down":
			m.vp.LineDown(1)
		case "k", "up":
			m.vp.LineUp(1)
		case "pgdown":
			m.vp.LineDown(10)
		case "pgup":
			m.vp.LineUp(10)
		}
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case impactMsg:
		m.impacts++
		m.byRisk[msg.Risk]++
		if msg.ImpactEnergy > m.maxEnergy {
			m.maxEnergy = msg.ImpactEnergy
		}
	case deflectionMsg:
		m.deflections++
		if msg.Success {
			m.successes++
		}
	}
	return m, nil
}

func (m *tuiModel) updateViewportHeight() {
	h := m.height - lipgloss.Height(m.header) - lipgloss.Height(m.renderBottom()) - 3
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
}

func (m *tuiModel) refreshViewport() {
	lines := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		if m.wrap && m.vp.Width > 0 {
			l = wordwrap.String(l, m.vp.Width)
		}
		lines = append(lines, l)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) renderSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "impacts=%d deflections=%d", m.impacts, m.deflections)
	if m.deflections > 0 {
		fmt.Fprintf(&b, " success=%.0f%%", 100*float64(m.successes)/float64(m.deflections))
	}
	fmt.Fprintf(&b, " max=%.3fMT", m.maxEnergy)
	for _, r := range []physics.Risk{physics.RiskLow, physics.RiskMedium, physics.RiskHigh, physics.RiskCritical} {
		fmt.Fprintf(&b, " %s%s=%d%s", riskColor(string(r)), r, m.byRisk[string(r)], colorReset)
	}
	return b.String()
}

func (m tuiModel) renderBottom() string {
	indicator := func(on bool) string {
		c := lipgloss.Color("8")
		if on {
			c = lipgloss.Color("10")
		}
		return lipgloss.NewStyle().Foreground(c).Render("●")
	}
	return fmt.Sprintf("%s wrap (w)  %s scroll (a)  j/k move  q quit", indicator(m.wrap), indicator(m.autoscroll))
}

func (m tuiModel) View() string {
	divider := strings.Repeat("─", m.vp.Width)
	return strings.Join([]string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		m.renderSummary(),
		m.renderBottom(),
	}, "\n")
}
