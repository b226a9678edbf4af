package solver

import (
	"errors"
	"testing"

	"github.com/san-kum/mbsim/internal/scenario"
)

func testScenario() *scenario.Scenario {
	return &scenario.Scenario{
		NumGridpoints: 100,
		NumTimesteps:  50,
		GridpointSize: 1,
		TimestepSize:  1,
	}
}

func TestCopyListLayout(t *testing.T) {
	records := []scenario.Record{
		{Name: "e", Observable: scenario.Electric, Position: -1},
		{Name: "probe", Observable: scenario.Inversion, Position: 10, Interval: 5},
		{Name: "d01", Observable: scenario.Density, Row: 0, Col: 1, Position: -1, Interval: 10},
		{Name: "d11", Observable: scenario.Density, Row: 1, Col: 1, Position: 3},
	}
	copies, size, err := buildCopyList(records, testScenario(), 2)
	if err != nil {
		t.Fatalf("buildCopyList: %v", err)
	}

	want := []struct {
		rows, cols, offset int
		complex            bool
	}{
		{50, 100, 0, false},
		{10, 1, 5000, false},
		{5, 100, 5010, true},
		{50, 1, 6010, false},
	}
	for i, w := range want {
		c := copies[i]
		if c.rows != w.rows || c.cols != w.cols || c.offset != w.offset || c.complex != w.complex {
			t.Errorf("%s: got rows=%d cols=%d offset=%d complex=%v", c.name, c.rows, c.cols, c.offset, c.complex)
		}
	}
	if copies[2].imagOffset != 5510 {
		t.Errorf("imaginary offset = %d, want 5510", copies[2].imagOffset)
	}
	if size != 6060 {
		t.Errorf("scratch size = %d, want 6060", size)
	}
}

func TestCopyListRejects(t *testing.T) {
	tests := []struct {
		name   string
		record scenario.Record
	}{
		{"outside grid", scenario.Record{Name: "x", Observable: scenario.Electric, Position: 500}},
		{"row out of range", scenario.Record{Name: "x", Observable: scenario.Density, Row: 2, Col: 0, Position: -1}},
		{"unknown observable", scenario.Record{Name: "x", Observable: scenario.Observable(42), Position: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildCopyList([]scenario.Record{tt.record}, testScenario(), 2)
			if !errors.Is(err, ErrInvalidRecord) {
				t.Fatalf("got %v, want ErrInvalidRecord", err)
			}
			var cfg *ConfigError
			if !errors.As(err, &cfg) || cfg.Kind != "record" {
				t.Fatalf("got %v, want a record ConfigError", err)
			}
		})
	}
}

func TestSpansAreDisjoint(t *testing.T) {
	c := copyEntry{pos: 37, cols: 150}
	for _, workers := range []int{1, 2, 3, 7} {
		owned := make([]int, 300)
		for _, ch := range partition(300, workers) {
			lo, hi := c.span(ch.start, ch.size)
			for g := lo; g < hi; g++ {
				owned[g]++
			}
		}
		for g, n := range owned {
			want := 0
			if g >= c.pos && g < c.pos+c.cols {
				want = 1
			}
			if n != want {
				t.Fatalf("%d workers: point %d written %d times, want %d", workers, g, n, want)
			}
		}
	}
}
