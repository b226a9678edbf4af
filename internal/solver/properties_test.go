package solver

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mbsim/internal/device"
	"github.com/san-kum/mbsim/internal/scenario"
)

func runSolver(dev *device.Device, scn *scenario.Scenario, workers int) *Solver {
	s, err := New(dev, scn, WithWorkers(workers))
	Expect(err).NotTo(HaveOccurred())
	Expect(s.Workers()).To(Equal(workers))
	s.Run()
	return s
}

var _ = Describe("Solver", func() {
	Describe("a passive device without sources", func() {
		DescribeTable("keeps both fields at exactly zero",
			func(workers int) {
				dev := vacuumDevice(testLength)
				s := runSolver(dev, fullScenario(dev, false), workers)
				for _, name := range []string{"e", "h"} {
					r, ok := s.Result(name)
					Expect(ok).To(BeTrue())
					Expect(r.Real).To(HaveEach(0.0), name)
				}
			},
			Entry("one worker", 1),
			Entry("three workers", 3),
		)
	})

	Describe("partitioning", func() {
		DescribeTable("produces results identical to a single worker",
			func(workers int) {
				dev := activeDevice(testLength)
				scn := fullScenario(dev, true)
				ref := runSolver(dev, scn, 1)
				got := runSolver(dev, scn, workers)

				for i, r := range ref.Results() {
					Expect(got.Results()[i].Real).To(Equal(r.Real), r.Name)
					Expect(got.Results()[i].Imag).To(Equal(r.Imag), r.Name)
				}
				for i := 0; i < testGridpoints; i++ {
					Expect(got.QuantumState(i)).To(Equal(ref.QuantumState(i)))
					e, h, p := got.Field(i)
					re, rh, rp := ref.Field(i)
					Expect([]float64{e, h, p}).To(Equal([]float64{re, rh, rp}))
				}
			},
			Entry("two workers", 2),
			Entry("three workers with a remainder chunk", 3),
			Entry("eight minimal chunks", 8),
		)

		It("is not trivially satisfied", func() {
			dev := activeDevice(testLength)
			s := runSolver(dev, fullScenario(dev, true), 4)
			e, _ := s.Result("e")
			Expect(e.Real).To(ContainElement(Not(BeZero())))
			inv, _ := s.Result("inv")
			Expect(inv.At(inv.Rows-1, testGridpoints/3)).NotTo(Equal(-1.0))
		})
	})

	Describe("the outer boundary", func() {
		DescribeTable("pins the magnetic field to zero at both grid edges",
			func(workers int) {
				dev := activeDevice(testLength)
				s := runSolver(dev, fullScenario(dev, true), workers)

				h, ok := s.Result("h")
				Expect(ok).To(BeTrue())
				nonzero := 0
				for r := 0; r < h.Rows; r++ {
					if h.At(r, 0) != 0 {
						nonzero++
					}
				}
				Expect(nonzero).To(BeZero())
				Expect(h.Column(1)).To(ContainElement(Not(BeZero())))

				eng := s.eng.(*fixedEngine[[3]float64, [9]float64])
				first, last := eng.workers[0], eng.workers[len(eng.workers)-1]
				Expect(first.arena.h[OL]).To(BeZero())
				Expect(last.arena.h[OL+last.chunk]).To(BeZero())
				Expect(last.start + last.chunk).To(Equal(testGridpoints))
			},
			Entry("one worker", 1),
			Entry("four workers", 4),
		)
	})

	Describe("a hard source", func() {
		DescribeTable("reproduces its waveform at its gridpoint",
			func(workers, k int) {
				dev := activeDevice(testLength)
				scn := scenario.New("source", testGridpoints, testEndTime)
				Expect(scn.Setup(dev)).To(Succeed())
				pos := (float64(k) + 0.25) * scn.GridpointSize
				wave := sechPulse()
				scn.AddSource(scenario.Source{Name: "hard", Position: pos, Kind: scenario.Hard, Waveform: wave})
				scn.AddRecord(scenario.Record{Name: "probe", Observable: scenario.Electric, Position: pos})

				s := runSolver(dev, scn, workers)
				r, _ := s.Result("probe")
				Expect(r.Rows).To(Equal(scn.NumTimesteps))
				for t := 0; t < r.Rows; t++ {
					Expect(r.At(t, 0)).To(Equal(wave.Value(float64(t)*scn.TimestepSize)), "timestep %d", t)
				}
			},
			Entry("single worker", 1, 100),
			Entry("last point of the first chunk", 4, 63),
			Entry("first point of the second chunk", 4, 64),
			Entry("inside the gain region", 3, 128),
			Entry("last gridpoint", 8, testGridpoints-1),
		)
	})

	Describe("construction", func() {
		DescribeTable("starts every gridpoint in its material's initial state",
			func(workers int) {
				dev := activeDevice(testLength)
				s, err := New(dev, fullScenario(dev, false), WithWorkers(workers))
				Expect(err).NotTo(HaveOccurred())

				table := s.Coefficients()
				Expect(table[1].Initial[2]).To(Equal(-1.0))
				for i := 0; i < testGridpoints; i++ {
					Expect(s.QuantumState(i)).To(Equal(table[s.MaterialIndex(i)].Initial), "gridpoint %d", i)
				}
			},
			Entry("one worker", 1),
			Entry("five workers", 5),
		)
	})

	Describe("a homogeneous lossless medium", func() {
		It("follows the discrete wave equation", func() {
			dev := vacuumDevice(testLength)
			scn := scenario.New("leapfrog", testGridpoints, testEndTime)
			Expect(scn.Setup(dev)).To(Succeed())
			k := 40
			scn.AddSource(scenario.Source{
				Name:     "soft",
				Position: (float64(k) + 0.25) * scn.GridpointSize,
				Kind:     scenario.Soft,
				Waveform: scenario.Gaussian{Amplitude: 1, Frequency: 2e14, Center: 2e-14, Width: 5e-15},
			})
			scn.AddRecord(scenario.Record{Name: "e", Observable: scenario.Electric, Position: -1})

			s := runSolver(dev, scn, 4)
			c := s.Coefficients()[0]
			s2 := c.CE * c.CH * c.DxInv
			courant := device.C0 * scn.TimestepSize / scn.GridpointSize
			Expect(s2).To(BeNumerically("~", courant*courant, 1e-9))
			Expect(courant).To(BeNumerically("<=", 0.5+1e-12))
			Expect(courant).To(BeNumerically(">", 0.49))

			e, _ := s.Result("e")
			peak := 0.0
			for _, v := range e.Real {
				peak = math.Max(peak, math.Abs(v))
			}
			Expect(peak).To(BeNumerically(">", 0.1))

			residual := 0.0
			for n := 1; n < e.Rows-1; n++ {
				for i := 1; i < e.Cols-1; i++ {
					if i == k {
						continue
					}
					lhs := e.At(n+1, i) - 2*e.At(n, i) + e.At(n-1, i)
					rhs := s2 * (e.At(n, i+1) - 2*e.At(n, i) + e.At(n, i-1))
					residual = math.Max(residual, math.Abs(lhs-rhs))
				}
			}
			Expect(residual).To(BeNumerically("<", 1e-12*peak))
		})
	})

	Describe("the scratch buffer", func() {
		It("holds exactly the selected samples and every one is written", func() {
			dev := activeDevice(testLength)
			scn := fullScenario(dev, true)
			scn.AddRecord(scenario.Record{
				Name:       "decimated",
				Observable: scenario.Density,
				Row:        1,
				Col:        0,
				Position:   testLength / 2,
				Interval:   7 * scn.TimestepSize,
			})
			s, err := New(dev, scn, WithWorkers(4))
			Expect(err).NotTo(HaveOccurred())

			reserved := 0
			for _, c := range s.layout.copies {
				selected := 0
				for t := 0; t < s.Timesteps(); t++ {
					if t%c.stride == 0 {
						selected++
					}
				}
				Expect(c.rows).To(Equal(selected), c.name)
				n := c.rows * c.cols
				if c.complex {
					n *= 2
				}
				reserved += n
			}
			Expect(s.layout.scratch).To(HaveLen(reserved))

			for i := range s.layout.scratch {
				s.layout.scratch[i] = math.NaN()
			}
			s.Run()
			unwritten := 0
			for _, v := range s.layout.scratch {
				if math.IsNaN(v) {
					unwritten++
				}
			}
			Expect(unwritten).To(BeZero())

			r, _ := s.Result("decimated")
			Expect(r.Complex).To(BeTrue())
			Expect(r.Rows).To(Equal((s.Timesteps() + 6) / 7))
		})
	})
})
