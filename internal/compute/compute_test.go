package compute

import (
	"errors"
	"testing"
)

func TestAligned(t *testing.T) {
	for _, n := range []int{1, 3, 64, 1000} {
		for _, align := range []int{8, 32, 64, 256} {
			f := Aligned[float64](n, align)
			if len(f) != n {
				t.Fatalf("len = %d, want %d", len(f), n)
			}
			if off := Misalignment(f, align); off != 0 {
				t.Errorf("n=%d align=%d: misaligned by %d", n, align, off)
			}
			for i := range f {
				if f[i] != 0 {
					t.Fatalf("element %d not zeroed", i)
				}
				f[i] = float64(i)
			}
		}
	}
}

func TestAlignedArrays(t *testing.T) {
	s := Aligned[[8]float64](17, CacheLine)
	if Misalignment(s, CacheLine) != 0 {
		t.Error("array slice misaligned")
	}
	s[16][7] = 1
	if Aligned[int32](0, CacheLine) != nil {
		t.Error("empty allocation should be nil")
	}
}

func TestLookup(t *testing.T) {
	b, err := Lookup("cpu")
	if err != nil {
		t.Fatalf("cpu: %v", err)
	}
	if b.Workers() < 1 {
		t.Errorf("workers = %d", b.Workers())
	}
	if _, err := Lookup("cuda"); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("cuda: got %v, want ErrBackendUnavailable", err)
	}
	if _, err := Lookup("tpu"); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestAutoSelect(t *testing.T) {
	if name := AutoSelectBackend().Name(); name != "cpu" {
		t.Errorf("auto selected %q", name)
	}
}
