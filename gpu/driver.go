// Package gpu defines the compute-only GPU abstraction that the LUT
// baker, applicator, scope dispatcher and format converter record work
// into. It is trimmed from a general graphics+compute interface down to
// the subset Crispen needs: Crispen never rasterizes, so there is no
// render pass, framebuffer or vertex/blend state here — only compute
// pipelines, descriptor binding, buffers/images and asynchronous buffer
// mapping.
package gpu

import "errors"

// ErrNoDevice means that no suitable device could be found.
var ErrNoDevice = errors.New("gpu: no suitable device found")

// ErrNoHostMemory means that host memory could not be allocated.
var ErrNoHostMemory = errors.New("gpu: out of host memory")

// ErrNoDeviceMemory means that device memory could not be allocated.
var ErrNoDeviceMemory = errors.New("gpu: out of device memory")

// ErrDeviceLost means the device vanished mid-frame. It is reported on the
// next submission attempt; any in-flight readback slots are abandoned.
var ErrDeviceLost = errors.New("gpu: device lost")

// Destroyer is the interface wrapping the Destroy method. Types that
// implement it may hold external memory not managed by the Go GC, so
// Destroy must be called explicitly.
type Destroyer interface {
	Destroy()
}

// GPU is the main interface to an underlying compute backend. It is used
// to create resources and to commit recorded command buffers for
// execution.
type GPU interface {
	// Name returns a human-readable name of the backend.
	Name() string

	// Commit commits a batch of command buffers for execution. It sends
	// the result to ch once every command buffer in cb has completed.
	// Command buffers in cb cannot be recorded into again until then.
	Commit(cb []CmdBuffer, ch chan<- error)

	// NewCmdBuffer creates a new command buffer.
	NewCmdBuffer() (CmdBuffer, error)

	// NewShaderCode creates a new compute shader module from source.
	NewShaderCode(data []byte) (ShaderCode, error)

	// NewDescHeap creates a new descriptor heap.
	NewDescHeap(ds []Descriptor) (DescHeap, error)

	// NewDescTable creates a new descriptor table.
	NewDescTable(dh []DescHeap) (DescTable, error)

	// NewPipeline creates a new compute pipeline from state.
	NewPipeline(state *CompState) (Pipeline, error)

	// NewBuffer creates a new buffer.
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// NewImage creates a new image.
	NewImage(pf PixelFmt, size Dim3D, usg Usage) (Image, error)

	// NewSampler creates a new sampler.
	NewSampler(spln *Sampling) (Sampler, error)

	// Limits returns the implementation limits. They are immutable for
	// the lifetime of the GPU.
	Limits() Limits

	// Poll drives the device event loop one step. It never blocks; it
	// is the only mechanism by which queued MapAsync callbacks fire.
	// It returns true if any callback fired during this call.
	Poll() bool
}

// MapMode selects how a mapped buffer range may be accessed.
type MapMode int

// Map modes.
const (
	MapRead MapMode = iota
	MapWrite
)
