// Package sweep runs the box model over grids of parameter values.
//
// A single simulation is strictly sequential in time, so the only available
// concurrency axis is across independent parameter combinations. Each grid
// cell is simulated in its own goroutine with no shared state beyond the
// per-index result slot.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lmarek/carbonbox/internal/boxmodel"
)

// ErrUnknownParam indicates an axis naming a parameter the model does not have.
var ErrUnknownParam = errors.New("sweep: unknown parameter")

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Param  string
	Values []float64
}

// Cell is the outcome of one grid point.
type Cell struct {
	Params boxmodel.Params
	Diag   boxmodel.Diagnostics
	Err    error
}

// Grid is a cartesian product of axes applied over a base parameter set.
type Grid struct {
	axes []Axis
}

func NewGrid(axes ...Axis) *Grid {
	return &Grid{axes: axes}
}

// Range spaces count values evenly from start to stop inclusive.
func Range(start, stop float64, count int) []float64 {
	if count < 1 {
		return nil
	}
	if count == 1 {
		return []float64{start}
	}
	vals := make([]float64, count)
	step := (stop - start) / float64(count-1)
	for i := range vals {
		vals[i] = start + float64(i)*step
	}
	return vals
}

// Size returns the number of grid cells.
func (g *Grid) Size() int {
	n := 1
	for _, ax := range g.axes {
		n *= len(ax.Values)
	}
	return n
}

// Expand produces the full list of parameter sets, last axis varying fastest.
func (g *Grid) Expand(base boxmodel.Params) ([]boxmodel.Params, error) {
	for _, ax := range g.axes {
		if !knownParam(ax.Param) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParam, ax.Param)
		}
	}

	out := make([]boxmodel.Params, 0, g.Size())
	g.expand(0, base, &out)
	return out, nil
}

func (g *Grid) expand(depth int, current boxmodel.Params, out *[]boxmodel.Params) {
	if depth == len(g.axes) {
		*out = append(*out, current)
		return
	}
	ax := g.axes[depth]
	for _, v := range ax.Values {
		g.expand(depth+1, apply(current, ax.Param, v), out)
	}
}

// Run simulates every grid cell in parallel and returns cells in grid order.
// Individual cells may carry errors (e.g. a swept steps value below 1)
// without aborting the rest of the grid.
func (g *Grid) Run(ctx context.Context, base boxmodel.Params) ([]Cell, error) {
	params, err := g.Expand(base)
	if err != nil {
		return nil, err
	}

	cells := make([]Cell, len(params))

	var wg sync.WaitGroup
	for i, p := range params {
		wg.Add(1)
		go func(idx int, p boxmodel.Params) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				cells[idx] = Cell{Params: p, Err: ctx.Err()}
				return
			default:
			}

			tr, err := boxmodel.Simulate(p)
			if err != nil {
				cells[idx] = Cell{Params: p, Err: err}
				return
			}
			cells[idx] = Cell{Params: p, Diag: boxmodel.Diagnose(tr)}
		}(i, p)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return cells, err
	}
	return cells, nil
}

func knownParam(name string) bool {
	switch name {
	case "c1", "c2", "c3", "rock", "atmo", "steps":
		return true
	}
	return false
}

func apply(p boxmodel.Params, name string, v float64) boxmodel.Params {
	switch name {
	case "c1":
		p.ReleaseRate = v
	case "c2":
		p.BurialRate = v
	case "c3":
		p.TempFactor = v
	case "rock":
		p.InitRock = v
	case "atmo":
		p.InitAtmo = v
	case "steps":
		p.Steps = int(v)
	}
	return p
}
