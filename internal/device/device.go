package device

import (
	"fmt"
	"math"
)

// Region places one material on the closed interval [XStart, XEnd], in meters.
type Region struct {
	Name     string
	XStart   float64
	XEnd     float64
	Material string
}

func (r Region) Contains(x float64) bool {
	return x >= r.XStart && x <= r.XEnd
}

// Device is an ordered list of regions resolved against a material library.
// When regions overlap, the first one listed wins.
type Device struct {
	Name    string
	regions []Region
	lib     *Library
}

func New(name string, lib *Library) *Device {
	return &Device{Name: name, lib: lib}
}

func (d *Device) AddRegion(r Region) error {
	if r.XEnd < r.XStart {
		return fmt.Errorf("device: region %q ends before it starts", r.Name)
	}
	if _, err := d.lib.Get(r.Material); err != nil {
		return fmt.Errorf("device: region %q: %w", r.Name, err)
	}
	d.regions = append(d.regions, r)
	return nil
}

func (d *Device) Regions() []Region { return d.regions }

func (d *Device) Library() *Library { return d.lib }

// Length is the extent from the leftmost region start to the rightmost end.
func (d *Device) Length() float64 {
	if len(d.regions) == 0 {
		return 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range d.regions {
		lo = math.Min(lo, r.XStart)
		hi = math.Max(hi, r.XEnd)
	}
	return hi - lo
}

// UsedMaterials returns the distinct materials referenced by the regions, in
// order of first reference. AddRegion guarantees every reference resolves.
func (d *Device) UsedMaterials() []*Material {
	seen := make(map[string]bool)
	used := make([]*Material, 0, len(d.regions))
	for _, r := range d.regions {
		if seen[r.Material] {
			continue
		}
		seen[r.Material] = true
		used = append(used, d.lib.materials[r.Material])
	}
	return used
}

// MinPermittivity is the smallest relative permittivity of the used
// materials. It bounds the fastest phase velocity on the grid.
func (d *Device) MinPermittivity() float64 {
	min := math.Inf(1)
	for _, m := range d.UsedMaterials() {
		min = math.Min(min, m.RelPermittivity)
	}
	if math.IsInf(min, 1) {
		return 1
	}
	return min
}

// MaterialAt returns the id of the first region containing x, or "" when x
// lies in no region.
func (d *Device) MaterialAt(x float64) string {
	for _, r := range d.regions {
		if r.Contains(x) {
			return r.Material
		}
	}
	return ""
}
