package scenario

import "math"

type SourceKind int

const (
	Soft SourceKind = iota
	Hard
)

func (k SourceKind) String() string {
	if k == Hard {
		return "hard"
	}
	return "soft"
}

// Waveform is the time signal of a source, in V/m.
type Waveform interface {
	Value(t float64) float64
}

// Source injects a waveform into the electric field at one position.
type Source struct {
	Name     string
	Position float64
	Kind     SourceKind
	Waveform Waveform
}

// Index is the gridpoint the source acts on.
func (s Source) Index(dx float64) int {
	return int(s.Position / dx)
}

// Sech is A·sech(βt − φs)·sin(2πft − φ).
type Sech struct {
	Amplitude float64
	Frequency float64
	Phase     float64
	Beta      float64
	PhaseSech float64
}

func (w Sech) Value(t float64) float64 {
	return w.Amplitude / math.Cosh(w.Beta*t-w.PhaseSech) * math.Sin(2*math.Pi*w.Frequency*t-w.Phase)
}

type Sine struct {
	Amplitude float64
	Frequency float64
	Phase     float64
}

func (w Sine) Value(t float64) float64 {
	return w.Amplitude * math.Sin(2*math.Pi*w.Frequency*t-w.Phase)
}

// Gaussian is a carrier under a gaussian envelope centred at Center.
type Gaussian struct {
	Amplitude float64
	Frequency float64
	Phase     float64
	Center    float64
	Width     float64
}

func (w Gaussian) Value(t float64) float64 {
	x := (t - w.Center) / w.Width
	return w.Amplitude * math.Exp(-x*x) * math.Sin(2*math.Pi*w.Frequency*t-w.Phase)
}

// Func adapts a plain function to Waveform.
type Func func(t float64) float64

func (f Func) Value(t float64) float64 { return f(t) }
