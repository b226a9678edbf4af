// Package export renders recorded results to PNG images.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/mbsim/internal/solver"
)

var ErrTooSmall = errors.New("export: result too small to render")

// Axes maps result rows and columns to physical time and position.
type Axes struct {
	X0 float64 // position of column 0
	Dx float64
	T0 float64 // time of row 0
	Dt float64
}

// Size of the rendered image in inches, at DPI.
var (
	Width  = 8.0
	Height = 6.0
	DPI    = 150
)

type grid struct {
	r  *solver.Result
	ax Axes
}

func (g grid) Dims() (c, r int)   { return g.r.Cols, g.r.Rows }
func (g grid) Z(c, r int) float64 { return g.r.At(r, c) }
func (g grid) X(c int) float64    { return g.ax.X0 + float64(c)*g.ax.Dx }
func (g grid) Y(r int) float64    { return g.ax.T0 + float64(r)*g.ax.Dt }

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Title.Padding = vg.Points(8)
	return p
}

// HeatMap renders the result as position (x) against time (y).
func HeatMap(r *solver.Result, ax Axes, path string) error {
	if r.Rows < 2 || r.Cols < 2 {
		return fmt.Errorf("%w: %s is %dx%d", ErrTooSmall, r.Name, r.Rows, r.Cols)
	}
	p := newPlot(r.Name, "x (m)", "t (s)")

	hm := plotter.NewHeatMap(grid{r: r, ax: ax}, moreland.SmoothBlueRed().Palette(255))
	if hm.Min == hm.Max {
		hm.Min, hm.Max = hm.Min-1, hm.Max+1
	}
	p.Add(hm)
	return save(p, path)
}

// Line renders the spatial profile at one sampled timestep.
func Line(r *solver.Result, row int, ax Axes, path string) error {
	if row < 0 || row >= r.Rows {
		return fmt.Errorf("export: row %d out of range [0, %d)", row, r.Rows)
	}
	pts := make(plotter.XYs, r.Cols)
	for j, v := range r.Row(row) {
		pts[j].X = ax.X0 + float64(j)*ax.Dx
		pts[j].Y = v
	}
	p := newPlot(fmt.Sprintf("%s at t = %.4g s", r.Name, ax.T0+float64(row)*ax.Dt), "x (m)", r.Name)
	return addLine(p, pts, path)
}

// Series renders the time series of one recorded column.
func Series(r *solver.Result, col int, ax Axes, path string) error {
	if col < 0 || col >= r.Cols {
		return fmt.Errorf("export: column %d out of range [0, %d)", col, r.Cols)
	}
	pts := make(plotter.XYs, r.Rows)
	for i, v := range r.Column(col) {
		pts[i].X = ax.T0 + float64(i)*ax.Dt
		pts[i].Y = v
	}
	p := newPlot(fmt.Sprintf("%s at x = %.4g m", r.Name, ax.X0+float64(col)*ax.Dx), "t (s)", r.Name)
	return addLine(p, pts, path)
}

func addLine(p *plot.Plot, pts plotter.XYs, path string) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(Width)*vg.Inch, vg.Length(Height)*vg.Inch),
		vgimg.UseDPI(DPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
