package compute

import "runtime"

// CacheLine is the alignment of CPU arenas. It covers AVX-512 loads.
const CacheLine = 64

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.GOMAXPROCS(0),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Workers() int    { return c.workers }
func (c *CPUBackend) Alignment() int  { return CacheLine }
func (c *CPUBackend) Cleanup()        {}
