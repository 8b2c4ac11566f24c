// Package wgpu implements gpu.GPU on top of github.com/cogentcore/webgpu,
// a pure Go binding over wgpu-native. It is the real compute backend: LUT
// baking/application, scope dispatch and format conversion run here when
// a hardware (or software-rasterizer, e.g. SwiftShader/lavapipe) adapter
// is available.
package wgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/crispen/core/gpu"
)

// Backend adapts a wgpu instance/adapter/device/queue to gpu.GPU.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	limits   gpu.Limits
}

// Open creates the wgpu instance, requests an adapter and a device, and
// returns the resulting backend. It blocks during adapter and device
// negotiation; shaders and pipelines are compiled later, by NewShaderCode
// and NewPipeline.
func Open() (*Backend, error) {
	inst := wgpu.CreateInstance(nil)
	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpu: request device: %w", err)
	}
	limits := adapter.GetLimits()

	b := &Backend{
		instance: inst,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}
	b.limits = gpu.Limits{
		MaxImage3D:      int(limits.Limits.MaxTextureDimension3D),
		MaxDescHeaps:    4,
		MaxDBuffer:      int(limits.Limits.MaxStorageBuffersPerShaderStage),
		MaxDImage:       int(limits.Limits.MaxStorageTexturesPerShaderStage),
		MaxDTexture:     int(limits.Limits.MaxSampledTexturesPerShaderStage),
		MaxDSampler:     int(limits.Limits.MaxSamplersPerShaderStage),
		MaxDBufferRange: int64(limits.Limits.MaxStorageBufferBindingSize),
		MaxDispatch: [3]int{
			int(limits.Limits.MaxComputeWorkgroupsPerDimension),
			int(limits.Limits.MaxComputeWorkgroupsPerDimension),
			int(limits.Limits.MaxComputeWorkgroupsPerDimension),
		},
		SupportsFilterableF32: adapter.HasFeature(wgpu.FeatureNameFloat32Filterable),
	}
	return b, nil
}

func (b *Backend) Name() string { return "wgpu/" + b.adapter.GetInfo().Name }

func (b *Backend) Limits() gpu.Limits { return b.limits }

// Poll services the device's queued callbacks (MapAsync among them)
// without blocking. This is the only suspension point in the readback
// path (spec §4.7 "try_consume").
func (b *Backend) Poll() bool {
	return b.device.Poll(false, nil)
}

// Commit submits every recorded command buffer as a single queue
// submission and reports completion on ch via the device's work-done
// callback.
func (b *Backend) Commit(cb []gpu.CmdBuffer, ch chan<- error) {
	bufs := make([]*wgpu.CommandBuffer, 0, len(cb))
	for _, c := range cb {
		wc, ok := c.(*cmdBuffer)
		if !ok {
			ch <- fmt.Errorf("wgpu: foreign command buffer type %T", c)
			return
		}
		bufs = append(bufs, wc.finished)
	}
	b.queue.Submit(bufs...)
	b.queue.OnSubmittedWorkDone(func(status wgpu.QueueWorkDoneStatus) {
		if status != wgpu.QueueWorkDoneStatusSuccess {
			ch <- fmt.Errorf("wgpu: queue work done: %v", status)
			return
		}
		ch <- nil
	})
}

func (b *Backend) Destroy() {
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
}
