package sweep_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lmarek/carbonbox/internal/boxmodel"
	"github.com/lmarek/carbonbox/internal/sweep"
)

var base = boxmodel.Params{
	ReleaseRate: 0.01,
	BurialRate:  0.005,
	TempFactor:  0.02,
	InitRock:    1000,
	InitAtmo:    300,
	Steps:       100,
}

var _ = Describe("Range", func() {
	It("spaces values evenly including both endpoints", func() {
		vals := sweep.Range(0.0, 1.0, 5)
		Expect(vals).To(HaveLen(5))
		Expect(vals[0]).To(Equal(0.0))
		Expect(vals[4]).To(Equal(1.0))
		Expect(vals[2]).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("collapses to the start value for a single point", func() {
		Expect(sweep.Range(0.3, 0.9, 1)).To(Equal([]float64{0.3}))
	})

	It("returns nil for a non-positive count", func() {
		Expect(sweep.Range(0, 1, 0)).To(BeNil())
	})
})

var _ = Describe("Grid", func() {
	Describe("Expand", func() {
		It("produces the cartesian product with the last axis fastest", func() {
			g := sweep.NewGrid(
				sweep.Axis{Param: "c1", Values: []float64{0.01, 0.02}},
				sweep.Axis{Param: "c2", Values: []float64{0.001, 0.002, 0.003}},
			)
			Expect(g.Size()).To(Equal(6))

			params, err := g.Expand(base)
			Expect(err).NotTo(HaveOccurred())
			Expect(params).To(HaveLen(6))

			Expect(params[0].ReleaseRate).To(Equal(0.01))
			Expect(params[0].BurialRate).To(Equal(0.001))
			Expect(params[2].ReleaseRate).To(Equal(0.01))
			Expect(params[2].BurialRate).To(Equal(0.003))
			Expect(params[5].ReleaseRate).To(Equal(0.02))
			Expect(params[5].BurialRate).To(Equal(0.003))
		})

		It("leaves unswept parameters at their base values", func() {
			g := sweep.NewGrid(sweep.Axis{Param: "c3", Values: []float64{0.05}})
			params, err := g.Expand(base)
			Expect(err).NotTo(HaveOccurred())
			Expect(params[0].InitRock).To(Equal(base.InitRock))
			Expect(params[0].Steps).To(Equal(base.Steps))
			Expect(params[0].TempFactor).To(Equal(0.05))
		})

		It("rejects unknown parameter names", func() {
			g := sweep.NewGrid(sweep.Axis{Param: "gravity", Values: []float64{9.81}})
			_, err := g.Expand(base)
			Expect(err).To(MatchError(sweep.ErrUnknownParam))
		})
	})

	Describe("Run", func() {
		It("simulates every cell and preserves grid order", func() {
			g := sweep.NewGrid(sweep.Axis{Param: "atmo", Values: []float64{100, 200, 300}})

			cells, err := g.Run(context.Background(), base)
			Expect(err).NotTo(HaveOccurred())
			Expect(cells).To(HaveLen(3))

			for i, want := range []float64{100, 200, 300} {
				Expect(cells[i].Err).NotTo(HaveOccurred())
				Expect(cells[i].Params.InitAtmo).To(Equal(want))
			}

			// Larger initial atmosphere yields a larger peak.
			Expect(cells[2].Diag.PeakAtmo).To(BeNumerically(">", cells[0].Diag.PeakAtmo))
		})

		It("records per-cell errors without aborting the grid", func() {
			g := sweep.NewGrid(sweep.Axis{Param: "steps", Values: []float64{0, 10}})

			cells, err := g.Run(context.Background(), base)
			Expect(err).NotTo(HaveOccurred())
			Expect(cells[0].Err).To(MatchError(boxmodel.ErrInvalidSteps))
			Expect(cells[1].Err).NotTo(HaveOccurred())
		})

		It("flags divergent cells", func() {
			g := sweep.NewGrid(sweep.Axis{Param: "c1", Values: []float64{0.01, 3.0}})
			cells, err := g.Run(context.Background(), boxmodel.Params{
				ReleaseRate: 0.01, BurialRate: 0.005, TempFactor: 0.02,
				InitRock: 1000, InitAtmo: 300, Steps: 2000,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(cells[0].Diag.Diverged).To(BeFalse())
			Expect(cells[1].Diag.Diverged).To(BeTrue())
		})

		It("stops scheduling work once the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			g := sweep.NewGrid(sweep.Axis{Param: "c1", Values: sweep.Range(0.001, 0.05, 50)})
			cells, err := g.Run(ctx, base)
			Expect(err).To(MatchError(context.Canceled))
			Expect(cells).To(HaveLen(50))
			Expect(cells[0].Err).To(MatchError(context.Canceled))
		})
	})
})
