// Package crispen is the root facade: it wires a GPU backend, the
// grading state machine and the frame orchestrator into a single Engine
// type, so a driver only has to hold one value (spec §1, §4.8, §4.9).
package crispen

import (
	"fmt"

	"github.com/crispen/core/gpu"
	"github.com/crispen/core/grading"
	"github.com/crispen/core/orchestrator"
	"github.com/crispen/core/readback"
	"github.com/crispen/core/scope"
)

// DefaultLutSize is the LUT grid resolution used when a driver does not
// override it (spec §3 "N typically 33 or 65").
const DefaultLutSize = 33

// Engine owns the grading state and the GPU pipeline that renders it.
// It exposes the command/event protocol from the grading package plus
// the two entry points a driver's render loop calls every frame.
type Engine struct {
	g     gpu.GPU
	state *grading.State
	orch  *orchestrator.Orchestrator

	lutSize int
}

// New creates an Engine bound to the given GPU backend (gpu/wgpu.Open for
// production, gpu/cpuref.New for headless use). The backend's lifetime is
// owned by the caller; Close does not destroy it.
func New(g gpu.GPU) *Engine {
	return &Engine{
		g:       g,
		state:   grading.New(),
		orch:    orchestrator.New(g),
		lutSize: DefaultLutSize,
	}
}

// State exposes the grading state for direct inspection; mutation should
// go through Apply so dirty-tracking and LUT/export I/O stay correct.
func (e *Engine) State() *grading.State { return e.state }

// SetLutSize overrides the LUT grid resolution used by SubmitFrame.
func (e *Engine) SetLutSize(n int) { e.lutSize = n }

// SetScopeVisibility forwards the four per-pass flags to the orchestrator,
// in histogram, waveform, vectorscope, CIE order.
func (e *Engine) SetScopeVisibility(histogram, waveform, vectorscope, cie bool) {
	e.orch.SetScopeVisibility(scope.Visibility{
		scope.Histogram:   histogram,
		scope.Waveform:    waveform,
		scope.Vectorscope: vectorscope,
		scope.CIE:         cie,
	})
}

// Apply executes a grading command, mutating the engine's state and
// returning the events it produced (spec §4.9, §6).
func (e *Engine) Apply(cmd grading.Command) ([]grading.Event, error) {
	return e.state.Apply(cmd)
}

// SubmitFrame renders the current grading state against src (the source
// image's RGBA f32 GPU buffer, width*height pixels) and arms the async
// readback (spec §4.8 submit_frame). Callers typically check
// HasPendingReadback before calling this, since the orchestrator itself
// refuses to overlap two in-flight frames.
func (e *Engine) SubmitFrame(src gpu.Buffer, width, height int) error {
	if e.state.Image == nil {
		return fmt.Errorf("crispen: submit_frame with no loaded image")
	}
	if err := e.orch.SubmitFrame(src, width, height, &e.state.Params, e.lutSize); err != nil {
		return err
	}
	e.state.Dirty = false
	return nil
}

// TryConsumeReadback returns the most recently submitted frame's results
// once ready, or (nil, false) if none are pending or ready yet (spec §4.8
// try_consume_readback).
func (e *Engine) TryConsumeReadback() (*readback.Bundle, bool) {
	return e.orch.TryConsumeReadback()
}

// HasPendingReadback reports whether a frame is still in flight (spec
// §4.8 has_pending_readback).
func (e *Engine) HasPendingReadback() bool {
	return e.orch.HasPendingReadback()
}

// Close releases every GPU resource the engine owns. The GPU backend
// itself, passed into New, is not destroyed.
func (e *Engine) Close() {
	e.orch.Destroy()
}
