package cpuref

import (
	"fmt"

	"github.com/crispen/core/gpu"
)

// cmdBuffer accumulates a sequence of closures to run in order on Commit,
// mirroring the real backend's encoder-then-submit shape without an
// actual device queue.
type cmdBuffer struct {
	ops      []func() error
	pipeline *pipeline
	copies   []int
}

func (c *cmdBuffer) Begin() error {
	c.ops = nil
	return nil
}

func (c *cmdBuffer) BeginWork(wait bool)  {}
func (c *cmdBuffer) EndWork()             { c.pipeline = nil }
func (c *cmdBuffer) BeginBlit(wait bool)  {}
func (c *cmdBuffer) EndBlit()             {}

func (c *cmdBuffer) SetPipeline(pl gpu.Pipeline) {
	c.pipeline = pl.(*pipeline)
}

func (c *cmdBuffer) SetDescTableComp(table gpu.DescTable, start int, heapCopy []int) {
	c.copies = heapCopy
}

func (c *cmdBuffer) Dispatch(x, y, z int) {
	pl := c.pipeline
	copies := append([]int(nil), c.copies...)
	c.ops = append(c.ops, func() error {
		ctx := &KernelContext{
			GroupCount: [3]int{x, y, z},
			heap:       pl.desc.heaps,
			copies:     copies,
		}
		pl.fn(ctx)
		return nil
	})
}

func (c *cmdBuffer) CopyBuffer(p *gpu.BufferCopy) {
	from := p.From.(*buffer)
	to := p.To.(*buffer)
	c.ops = append(c.ops, func() error {
		copy(to.data[p.ToOff:p.ToOff+p.Size], from.data[p.FromOff:p.FromOff+p.Size])
		return nil
	})
}

func (c *cmdBuffer) CopyBufToImg(p *gpu.BufImgCopy) {
	buf := p.Buf.(*buffer)
	img := p.Img.(*image)
	c.ops = append(c.ops, func() error {
		n := int64(len(img.data))
		if int64(len(buf.data))-p.BufOff < n {
			return fmt.Errorf("cpuref: CopyBufToImg: source range too small")
		}
		copy(img.data, buf.data[p.BufOff:p.BufOff+n])
		return nil
	})
}

func (c *cmdBuffer) CopyImgToBuf(p *gpu.BufImgCopy) {
	buf := p.Buf.(*buffer)
	img := p.Img.(*image)
	c.ops = append(c.ops, func() error {
		n := int64(len(img.data))
		copy(buf.data[p.BufOff:p.BufOff+n], img.data)
		return nil
	})
}

func (c *cmdBuffer) Barrier(b []gpu.Barrier)          {}
func (c *cmdBuffer) Transition(t []gpu.Transition)    {}

func (c *cmdBuffer) End() error { return nil }

func (c *cmdBuffer) Reset() error {
	c.ops = nil
	return nil
}

func (c *cmdBuffer) Destroy() {}
