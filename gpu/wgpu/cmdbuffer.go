package wgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/crispen/core/gpu"
)

// cmdBuffer accumulates a wgpu.CommandEncoder across one or more
// BeginWork/BeginBlit blocks and finishes it into a CommandBuffer on End.
type cmdBuffer struct {
	device   *wgpu.Device
	encoder  *wgpu.CommandEncoder
	pass     *wgpu.ComputePassEncoder
	finished *wgpu.CommandBuffer
	pipeline *pipeline
}

func newCmdBuffer(d *wgpu.Device) (*cmdBuffer, error) {
	return &cmdBuffer{device: d}, nil
}

func (c *cmdBuffer) Begin() error {
	enc, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	c.encoder = enc
	return nil
}

func (c *cmdBuffer) BeginWork(wait bool) {
	_ = wait // wgpu orders commands within an encoder; no explicit wait needed.
	c.pass = c.encoder.BeginComputePass(nil)
}

func (c *cmdBuffer) EndWork() {
	c.pass.End()
	c.pass = nil
}

func (c *cmdBuffer) BeginBlit(wait bool) { _ = wait }

func (c *cmdBuffer) EndBlit() {}

func (c *cmdBuffer) SetPipeline(pl gpu.Pipeline) {
	p := pl.(*pipeline)
	c.pipeline = p
	c.pass.SetPipeline(p.pipeline)
}

func (c *cmdBuffer) SetDescTableComp(table gpu.DescTable, start int, heapCopy []int) {
	dt := table.(*descTable)
	for i, bg := range dt.groups {
		idx := uint32(start + i)
		cpy := uint32(0)
		if i < len(heapCopy) {
			cpy = uint32(heapCopy[i])
		}
		c.pass.SetBindGroup(idx, bg.bindGroup(int(cpy)), nil)
	}
}

func (c *cmdBuffer) Dispatch(x, y, z int) {
	c.pass.DispatchWorkgroups(uint32(x), uint32(y), uint32(z))
}

func (c *cmdBuffer) CopyBuffer(p *gpu.BufferCopy) {
	from := p.From.(*buffer)
	to := p.To.(*buffer)
	c.encoder.CopyBufferToBuffer(from.buf, uint64(p.FromOff), to.buf, uint64(p.ToOff), uint64(p.Size))
}

func (c *cmdBuffer) CopyBufToImg(p *gpu.BufImgCopy) {
	buf := p.Buf.(*buffer)
	img := p.Img.(*image)
	bpp := int64(4)
	switch img.format {
	case wgpu.TextureFormatRGBA32Float:
		bpp = 16
	case wgpu.TextureFormatRGBA16Float:
		bpp = 8
	}
	c.encoder.CopyBufferToTexture(
		&wgpu.ImageCopyBuffer{
			Buffer: buf.buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       uint64(p.BufOff),
				BytesPerRow:  uint32(p.Stride[0] * bpp),
				RowsPerImage: uint32(p.Stride[1]),
			},
		},
		&wgpu.ImageCopyTexture{Texture: img.tex},
		&wgpu.Extent3D{
			Width:              uint32(p.Size.Width),
			Height:             uint32(p.Size.Height),
			DepthOrArrayLayers: uint32(p.Size.Depth),
		},
	)
}

func (c *cmdBuffer) CopyImgToBuf(p *gpu.BufImgCopy) {
	buf := p.Buf.(*buffer)
	img := p.Img.(*image)
	bpp := int64(4)
	switch img.format {
	case wgpu.TextureFormatRGBA32Float:
		bpp = 16
	case wgpu.TextureFormatRGBA16Float:
		bpp = 8
	}
	c.encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{Texture: img.tex},
		&wgpu.ImageCopyBuffer{
			Buffer: buf.buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       uint64(p.BufOff),
				BytesPerRow:  uint32(p.Stride[0] * bpp),
				RowsPerImage: uint32(p.Stride[1]),
			},
		},
		&wgpu.Extent3D{
			Width:              uint32(p.Size.Width),
			Height:             uint32(p.Size.Height),
			DepthOrArrayLayers: uint32(p.Size.Depth),
		},
	)
}

// Barrier is a no-op under wgpu: the API tracks resource usage and
// inserts the necessary synchronization automatically.
func (c *cmdBuffer) Barrier(b []gpu.Barrier) {}

// Transition is a no-op for the same reason as Barrier.
func (c *cmdBuffer) Transition(t []gpu.Transition) {}

func (c *cmdBuffer) End() error {
	fin, err := c.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("wgpu: finish command encoder: %w", err)
	}
	c.finished = fin
	return nil
}

func (c *cmdBuffer) Reset() error {
	c.encoder = nil
	c.finished = nil
	c.pass = nil
	return nil
}

func (c *cmdBuffer) Destroy() {
	if c.finished != nil {
		c.finished.Release()
	}
}
