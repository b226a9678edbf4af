package compute

// CUDABackend reserves the name of a GPU backend. No kernels are built into
// this binary, so it always reports itself unavailable.
type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Workers() int    { return 0 }
func (c *CUDABackend) Alignment() int  { return 256 }
func (c *CUDABackend) Cleanup()        {}
