package wgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/crispen/core/gpu"
)

// pipeline adapts a wgpu.ComputePipeline to gpu.Pipeline.
type pipeline struct {
	pipeline *wgpu.ComputePipeline
}

func (p *pipeline) Destroy() { p.pipeline.Release() }

func (b *Backend) NewPipeline(state *gpu.CompState) (gpu.Pipeline, error) {
	sc := state.Func.Code.(*shaderCode)
	dt := state.Desc.(*descTable)

	layouts := make([]*wgpu.BindGroupLayout, len(dt.heaps))
	for i, h := range dt.heaps {
		layouts[i] = h.layout
	}
	pl, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	defer pl.Release()

	cp, err := b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Layout: pl,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     sc.mod,
			EntryPoint: state.Func.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create compute pipeline: %w", err)
	}
	return &pipeline{pipeline: cp}, nil
}
