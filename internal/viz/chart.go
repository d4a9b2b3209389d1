// Package viz renders trajectories as terminal line charts.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/lmarek/carbonbox/internal/boxmodel"
)

var (
	rockStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("137"))
	atmoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	tempStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Legend labels the combined chart. The reference figure draws temperature
// dashed; a terminal gets a color and a dashed marker instead.
func Legend() string {
	return strings.Join([]string{
		rockStyle.Render("── rock carbon"),
		atmoStyle.Render("── atmospheric carbon"),
		tempStyle.Render("╌╌ temperature"),
	}, "   ")
}

// RenderSeries draws one captioned chart per series, stacked vertically.
func RenderSeries(tr *boxmodel.Trajectory, width, height int) string {
	var sb strings.Builder

	series := []struct {
		name string
		data []float64
	}{
		{"rock carbon", tr.Rock},
		{"atmospheric carbon", tr.Atmo},
		{"temperature (dashed)", tr.Temp},
	}

	for i, s := range series {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(renderOne(s.data, s.name, width, height))
	}

	return sb.String()
}

// RenderCombined draws all three series in one chart plus the legend.
// Temperature shares the carbon axis, as in the reference figure.
func RenderCombined(tr *boxmodel.Trajectory, width, height int) string {
	cut := tr.Len()
	for _, data := range [][]float64{tr.Rock, tr.Atmo, tr.Temp} {
		if c := finiteLen(data); c < cut {
			cut = c
		}
	}

	if cut == 0 {
		return "(no finite data to plot)"
	}

	graph := asciigraph.PlotMany(
		[][]float64{tr.Rock[:cut], tr.Atmo[:cut], tr.Temp[:cut]},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Brown, asciigraph.Green, asciigraph.Red),
	)

	var sb strings.Builder
	sb.WriteString(graph)
	sb.WriteString("\n\n")
	sb.WriteString(Legend())
	if cut < tr.Len() {
		sb.WriteString("\n")
		sb.WriteString(captionStyle.Render(
			fmt.Sprintf("(series diverged to non-finite values; showing steps 0..%d of %d)", cut-1, tr.Len())))
	}
	return sb.String()
}

func renderOne(data []float64, caption string, width, height int) string {
	cut := finiteLen(data)
	if cut == 0 {
		return captionStyle.Render(caption + ": no finite data")
	}

	graph := asciigraph.Plot(data[:cut],
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
	if cut < len(data) {
		graph += "\n" + captionStyle.Render(
			fmt.Sprintf("(truncated at step %d: non-finite values)", cut))
	}
	return graph
}

// finiteLen returns the length of the leading run of finite values.
// asciigraph cannot scale an axis containing NaN or Inf; negative and very
// large finite values plot as-is.
func finiteLen(data []float64) int {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return len(data)
}
