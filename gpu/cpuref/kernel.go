package cpuref

import "sync"

// KernelFunc implements a compute shader's per-dispatch work entirely in
// Go. It is handed the bound resources for the currently set descriptor
// table and the workgroup counts passed to Dispatch.
type KernelFunc func(ctx *KernelContext)

// KernelContext exposes the resources bound to the active compute
// pipeline for the duration of one Dispatch call.
type KernelContext struct {
	// GroupCount is (x, y, z) as passed to Dispatch.
	GroupCount [3]int
	heap       []*descHeap
	copies     []int
}

// Buffer returns the raw byte slice bound at descriptor index nr in the
// heap at table position heapIdx, for the currently bound heap copy.
func (c *KernelContext) Buffer(heapIdx, nr int) []byte {
	h := c.heap[heapIdx]
	cpy := 0
	if heapIdx < len(c.copies) {
		cpy = c.copies[heapIdx]
	}
	bindings := h.copies[cpy].buffers[nr]
	if len(bindings) == 0 {
		return nil
	}
	bb := bindings[0]
	return bb.buf.data[bb.off : bb.off+bb.sz]
}

// Image returns the backing image bound at descriptor index nr.
func (c *KernelContext) Image(heapIdx, nr int) *image {
	h := c.heap[heapIdx]
	cpy := 0
	if heapIdx < len(c.copies) {
		cpy = c.copies[heapIdx]
	}
	imgs := h.copies[cpy].images[nr]
	if len(imgs) == 0 {
		return nil
	}
	return imgs[0]
}

var (
	registryMu sync.RWMutex
	registry   = map[string]KernelFunc{}
)

// RegisterKernel installs the Go implementation of a named compute
// kernel. Domain packages (lut, scope, format) call this from an init
// function so that a cpuref.Backend can dispatch their shaders without a
// real WGSL compiler.
func RegisterKernel(name string, fn KernelFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

func lookupKernel(name string) KernelFunc {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}
