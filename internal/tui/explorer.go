// Package tui is an interactive parameter explorer: pick a knob, nudge or
// type a value, and the model is re-simulated and re-drawn on every change.
// All state lives in the bubbletea model; the simulator itself stays pure.
package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lmarek/carbonbox/internal/boxmodel"
	"github.com/lmarek/carbonbox/internal/config"
	"github.com/lmarek/carbonbox/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// knob describes one adjustable parameter. lo/hi are the suggested teaching
// ranges shown as hints; values outside them are accepted.
type knob struct {
	name   string
	step   float64
	lo, hi float64
	format string
	get    func(boxmodel.Params) float64
	set    func(*boxmodel.Params, float64)
}

var knobs = []knob{
	{
		name: "release rate (c1)", step: 0.001, lo: 0.001, hi: 0.05, format: "%.4f",
		get: func(p boxmodel.Params) float64 { return p.ReleaseRate },
		set: func(p *boxmodel.Params, v float64) { p.ReleaseRate = v },
	},
	{
		name: "burial rate (c2)", step: 0.001, lo: 0.001, hi: 0.05, format: "%.4f",
		get: func(p boxmodel.Params) float64 { return p.BurialRate },
		set: func(p *boxmodel.Params, v float64) { p.BurialRate = v },
	},
	{
		name: "temp factor (c3)", step: 0.001, lo: 0.001, hi: 0.1, format: "%.4f",
		get: func(p boxmodel.Params) float64 { return p.TempFactor },
		set: func(p *boxmodel.Params, v float64) { p.TempFactor = v },
	},
	{
		name: "initial rock carbon", step: 50, lo: 500, hi: 2000, format: "%.1f",
		get: func(p boxmodel.Params) float64 { return p.InitRock },
		set: func(p *boxmodel.Params, v float64) { p.InitRock = v },
	},
	{
		name: "initial atmo carbon", step: 25, lo: 100, hi: 600, format: "%.1f",
		get: func(p boxmodel.Params) float64 { return p.InitAtmo },
		set: func(p *boxmodel.Params, v float64) { p.InitAtmo = v },
	},
	{
		name: "timesteps", step: 100, lo: 100, hi: 2000, format: "%.0f",
		get: func(p boxmodel.Params) float64 { return float64(p.Steps) },
		set: func(p *boxmodel.Params, v float64) { p.Steps = int(v) },
	},
}

type Model struct {
	params    boxmodel.Params
	cursor    int
	editing   bool
	editBuf   string
	presets   []string
	presetIdx int

	traj *boxmodel.Trajectory
	diag boxmodel.Diagnostics
	err  error

	width, height int
}

func NewModel(p boxmodel.Params) Model {
	presets := config.ListPresets()
	sort.Strings(presets)

	m := Model{
		params:    p,
		presets:   presets,
		presetIdx: -1,
		width:     100,
		height:    30,
	}
	m.resimulate()
	return m
}

// Run launches the explorer with the given starting parameters.
func Run(p boxmodel.Params) error {
	prog := tea.NewProgram(NewModel(p))
	_, err := prog.Run()
	return err
}

func (m *Model) resimulate() {
	m.traj, m.err = boxmodel.Simulate(m.params)
	if m.err == nil {
		m.diag = boxmodel.Diagnose(m.traj)
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				knobs[m.cursor].set(&m.params, val)
				m.presetIdx = -1
				m.resimulate()
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(knobs)-1 {
			m.cursor++
		}
	case "left", "h":
		k := knobs[m.cursor]
		k.set(&m.params, k.get(m.params)-k.step)
		m.presetIdx = -1
		m.resimulate()
	case "right", "l":
		k := knobs[m.cursor]
		k.set(&m.params, k.get(m.params)+k.step)
		m.presetIdx = -1
		m.resimulate()
	case "e", "enter":
		m.editing = true
		m.editBuf = ""
	case "r":
		m.params = config.DefaultConfig().Params()
		m.presetIdx = -1
		m.resimulate()
	case "p":
		if len(m.presets) > 0 {
			m.presetIdx = (m.presetIdx + 1) % len(m.presets)
			m.params = config.GetPreset(m.presets[m.presetIdx]).Params()
			m.resimulate()
		}
	}
	return m, nil
}

func (m Model) View() string {
	left := m.paramPane()

	chartWidth := m.width - lipgloss.Width(left) - 12
	if chartWidth < 30 {
		chartWidth = 30
	}
	chartHeight := m.height - 12
	if chartHeight < 6 {
		chartHeight = 6
	}

	var right string
	if m.err != nil {
		right = red.Render(m.err.Error())
	} else {
		right = viz.RenderCombined(m.traj, chartWidth, chartHeight)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingRight(3).Render(left),
		right,
	)

	help := dimmer.Render("↑/↓ select  ←/→ adjust  e edit  r reset  p preset  q quit")
	return cyan.Render("carbonbox · weathering feedback explorer") + "\n\n" + body + "\n\n" + help
}

func (m Model) paramPane() string {
	var sb strings.Builder

	for i, k := range knobs {
		marker := "  "
		style := white
		if i == m.cursor {
			marker = yellow.Render("▸ ")
			style = yellow
		}

		value := fmt.Sprintf(k.format, k.get(m.params))
		if i == m.cursor && m.editing {
			value = magenta.Render(m.editBuf + "▏")
		}

		hint := dimmer.Render(fmt.Sprintf("  (%g–%g)", k.lo, k.hi))
		sb.WriteString(fmt.Sprintf("%s%-22s %s%s\n", marker, style.Render(k.name), value, hint))
	}

	sb.WriteString("\n")
	if m.presetIdx >= 0 {
		sb.WriteString(dim.Render("preset: ") + magenta.Render(m.presets[m.presetIdx]) + "\n")
	}

	if m.err == nil {
		sb.WriteString("\n")
		sb.WriteString(dim.Render("final temp    ") + white.Render(fmt.Sprintf("%.4f", m.diag.FinalTemp)) + "\n")
		sb.WriteString(dim.Render("peak atmo     ") + white.Render(fmt.Sprintf("%.2f @ t=%d", m.diag.PeakAtmo, m.diag.PeakAtmoStep)) + "\n")
		sb.WriteString(dim.Render("budget drift  ") + white.Render(fmt.Sprintf("%.2f", m.diag.BudgetDrift)) + "\n")
		if m.diag.Diverged {
			sb.WriteString(red.Render("diverged") + "\n")
		}
	}

	return sb.String()
}
