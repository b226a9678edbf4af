package solver

import (
	"fmt"

	"github.com/san-kum/mbsim/internal/qm"
	"github.com/san-kum/mbsim/internal/scenario"
)

// copyEntry maps one record onto a region of the scratch buffer. Samples are
// stored row-major: one row per sampled timestep, one column per gridpoint.
type copyEntry struct {
	name    string
	obs     scenario.Observable
	complex bool

	pos, cols    int
	stride, rows int
	offset       int // real part
	imagOffset   int // imaginary part, valid when complex

	// Quantum element selectors.
	row, col  int
	inv       int
	sym, asym int
	sign      float64
	base      float64
	weights   []float64
}

func (c *copyEntry) size() int { return c.rows * c.cols }

// span intersects the record with the interior [start, start+size) and
// returns the global range to write.
func (c *copyEntry) span(start, size int) (lo, hi int) {
	lo = max(c.pos, start)
	hi = min(c.pos+c.cols, start+size)
	return lo, hi
}

// buildCopyList lays the records out back to back in the scratch buffer and
// returns the entries and the buffer size.
func buildCopyList(records []scenario.Record, scn *scenario.Scenario, levels int) ([]copyEntry, int, error) {
	entries := make([]copyEntry, 0, len(records))
	offset := 0
	weights := qm.PopulationWeights(levels)

	for _, r := range records {
		invalid := func(format string, args ...any) error {
			return &ConfigError{Kind: "record", Name: r.Name, Wrapped: fmt.Errorf("%w: "+format, append([]any{ErrInvalidRecord}, args...)...)}
		}

		c := copyEntry{
			name:    r.Name,
			obs:     r.Observable,
			complex: r.Complex(),
			row:     r.Row,
			col:     r.Col,
			inv:     qm.InversionIndex(levels),
		}
		c.stride, c.rows = r.Sampling(scn.TimestepSize, scn.NumTimesteps)
		c.pos, c.cols = r.Span(scn.GridpointSize, scn.NumGridpoints)
		if c.pos < 0 || c.pos+c.cols > scn.NumGridpoints {
			return nil, 0, invalid("position %g outside the grid", r.Position)
		}

		switch r.Observable {
		case scenario.Electric, scenario.Magnetic, scenario.Inversion:
		case scenario.Density:
			if r.Row < 0 || r.Row >= levels || r.Col < 0 || r.Col >= levels {
				return nil, 0, invalid("element (%d, %d) of a %d-level system", r.Row, r.Col, levels)
			}
			if r.Row == r.Col {
				c.base = 1 / float64(levels)
				c.weights = weights[r.Row]
			} else {
				c.sym, c.asym = qm.CoherenceIndex(levels, r.Row, r.Col)
				c.sign = -1
				if r.Row > r.Col {
					c.sign = 1
				}
			}
		default:
			return nil, 0, invalid("unknown observable %v", r.Observable)
		}

		c.offset = offset
		offset += c.size()
		if c.complex {
			c.imagOffset = offset
			offset += c.size()
		}
		entries = append(entries, c)
	}
	return entries, offset, nil
}
