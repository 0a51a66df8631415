package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/spintop/internal/experiment"
	"github.com/san-kum/spintop/internal/sim"
)

const (
	canvasWidth     = 48
	canvasHeight    = 16
	historyCapacity = 240
)

// Builder makes a fresh experiment for a seed. The live view calls it
// again on reset.
type Builder func(seed int64) (*experiment.Experiment, error)

type TickMsg time.Time

// Model steps an experiment once per tick and renders a side view of the
// scene next to the controller status.
type Model struct {
	build Builder
	seed  int64
	exp   *experiment.Experiment
	clock *sim.Clock
	last  sim.Sample

	canvas   *Canvas
	viewport Viewport
	tilt     []float64
	spin     []float64

	theme    int
	styles   Styles
	running  bool
	showHelp bool
	uses     int
	err      error
}

func NewModel(build Builder, seed int64) (Model, error) {
	m := Model{
		build:    build,
		seed:     seed,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		viewport: DefaultViewport(),
		styles:   NewStyles(Themes[0]),
		running:  true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	exp, err := m.build(m.seed)
	if err != nil {
		return err
	}
	if m.exp != nil {
		_ = m.exp.Close()
	}
	m.exp = exp
	m.clock = sim.NewClock(exp.Config().Loop())
	m.last = exp.Sample(0)
	m.tilt = m.tilt[:0]
	m.spin = m.spin[:0]
	m.uses = 0
	return nil
}

func (m Model) frameInterval() time.Duration {
	return time.Duration(m.exp.Config().Sim.FrameDt * float64(time.Second))
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			_ = m.exp.Close()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "u":
			m.exp.Use()
			m.uses++
		case "g":
			m.exp.Grab()
		case "r":
			m.seed++
			m.err = m.reset()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = NewStyles(Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	s := m.clock.Tick(m.exp)
	if !s.IsValid() {
		m.running = false
		m.err = fmt.Errorf("invalid state at t=%.3f", s.Time)
		return
	}
	m.last = s
	m.tilt = appendCapped(m.tilt, s.Tilt*180/math.Pi)
	m.spin = appendCapped(m.spin, s.AngularSpeed)
}

func appendCapped(buf []float64, v float64) []float64 {
	buf = append(buf, v)
	if len(buf) > historyCapacity {
		buf = buf[len(buf)-historyCapacity:]
	}
	return buf
}

func (m Model) View() string {
	st := m.styles
	m.canvas.Clear()
	DrawWorld(m.canvas, m.viewport, m.exp.World())
	DrawTop(m.canvas, m.viewport, m.exp.Body())

	cfg := m.exp.Config()
	title := st.Title.Render(fmt.Sprintf("spintop · %s", cfg.Scene.Name))
	scene := st.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.canvas.String()))

	status := m.exp.Controller().Status()
	s := m.last
	spinning := st.Low.Render("no")
	if s.Spinning {
		spinning = st.High.Render("yes")
	}
	state := "running"
	if !m.running {
		state = "paused"
	}

	rows := []string{
		st.Header.Render("controller"),
		st.Row("time", fmt.Sprintf("%.2fs", s.Time)),
		st.Label.Render("phase: ") + st.Phase(s.Phase),
		st.Label.Render("spinning: ") + spinning,
		st.Row("tilt", fmt.Sprintf("%.1f°", s.Tilt*180/math.Pi)),
		st.Row("spin", fmt.Sprintf("%.1f rad/s", s.AngularSpeed)),
		st.Row("com y", fmt.Sprintf("%+.3f", s.CenterOfMass.Y())),
		st.Label.Render("balance ") + st.ProgressBar(status.BalanceProgress, 16),
		st.Label.Render("push    ") + st.ProgressBar(status.PushFraction, 16),
		st.Row("uses", fmt.Sprintf("%d", m.uses)),
		st.Row("state", state),
		"",
		st.Label.Render("tilt ") + st.Sparkline(m.tilt, 30),
	}
	if m.err != nil {
		rows = append(rows, st.Low.Render(m.err.Error()))
	}
	stats := st.Panel.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	graph := PlotSeries(m.spin, "spin (rad/s)", 60, 6)

	help := st.Hint.Render("u use · g grab · space pause · r reset · t theme · ? help · q quit")
	if m.showHelp {
		help = st.Hint.Render(strings.Join([]string{
			"u      use: place the held top, or toss it if nothing is in reach",
			"g      grab the top back into the hand",
			"space  pause or resume",
			"r      rebuild the scene with the next seed",
			"t      cycle colour themes",
			"q      quit",
		}, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, scene, stats),
		graph,
		help,
	)
}

// Run starts the live view on the terminal and blocks until the user quits.
func Run(build Builder, seed int64, theme Theme) error {
	m, err := NewModel(build, seed)
	if err != nil {
		return err
	}
	m.SetTheme(theme)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) SetTheme(t Theme) {
	for i, candidate := range Themes {
		if candidate.Name == t.Name {
			m.theme = i
		}
	}
	m.styles = NewStyles(t)
}

// Experiment exposes the running experiment.
func (m Model) Experiment() *experiment.Experiment { return m.exp }
func (m Model) Last() sim.Sample                   { return m.last }
func (m Model) Running() bool                      { return m.running }
