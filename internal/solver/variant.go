package solver

import (
	"fmt"
	"sort"
)

// variants maps a level count to its fixed-size engine.
var variants = map[int]func(*layout) engine{
	2: newEngine[[3]float64, [9]float64],
	3: newEngine[[8]float64, [64]float64],
	4: newEngine[[15]float64, [225]float64],
	5: newEngine[[24]float64, [576]float64],
	6: newEngine[[35]float64, [1225]float64],
}

// VariantName is the identifier of the CPU RK4 engine for a level count.
func VariantName(levels int) string {
	return fmt.Sprintf("cpu-%dlvl-rk4", levels)
}

// Variants lists the compiled engines.
func Variants() []string {
	levels := make([]int, 0, len(variants))
	for l := range variants {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = VariantName(l)
	}
	return names
}

// SupportedLevels reports whether an engine exists for the level count.
func SupportedLevels(levels int) bool {
	_, ok := variants[levels]
	return ok
}
