package wgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/crispen/core/gpu"
)

// buffer adapts wgpu.Buffer to gpu.Buffer, tracking the host-visible
// mapped slice between a completed MapAsync and the matching Unmap.
type buffer struct {
	buf     *wgpu.Buffer
	queue   *wgpu.Queue
	size    int64
	visible bool
	mapped  []byte
}

func (b *buffer) Visible() bool { return b.visible }

func (b *buffer) Bytes() []byte { return b.mapped }

func (b *buffer) Cap() int64 { return b.size }

func (b *buffer) MapAsync(mode gpu.MapMode, off, size int64, cb func(error)) {
	var m wgpu.MapMode
	switch mode {
	case gpu.MapRead:
		m = wgpu.MapModeRead
	case gpu.MapWrite:
		m = wgpu.MapModeWrite
	}
	b.buf.MapAsync(m, uint64(off), uint64(size), func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			cb(fmt.Errorf("wgpu: buffer map async: %v", status))
			return
		}
		b.mapped = b.buf.GetMappedRange(uint(off), uint(size))
		cb(nil)
	})
}

func (b *buffer) Unmap() {
	b.mapped = nil
	b.buf.Unmap()
}

func (b *buffer) Destroy() { b.buf.Release() }

// SetBytes uploads data through the device queue, the standard wgpu path
// for small one-shot writes that does not require mapping the buffer.
func (b *buffer) SetBytes(off int64, data []byte) {
	b.queue.WriteBuffer(b.buf, uint64(off), data)
}

func usageFlags(u gpu.Usage, visible bool) wgpu.BufferUsage {
	var f wgpu.BufferUsage
	if u&gpu.UShaderRead != 0 {
		f |= wgpu.BufferUsageStorage
	}
	if u&gpu.UShaderWrite != 0 {
		f |= wgpu.BufferUsageStorage
	}
	if u&gpu.UCopySrc != 0 {
		f |= wgpu.BufferUsageCopySrc
	}
	if u&gpu.UCopyDst != 0 {
		f |= wgpu.BufferUsageCopyDst
	}
	if visible {
		f |= wgpu.BufferUsageMapRead | wgpu.BufferUsageMapWrite
	}
	return f
}

func (b *Backend) NewBuffer(size int64, visible bool, usg gpu.Usage) (gpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  uint64(size),
		Usage: usageFlags(usg, visible),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer: %w", err)
	}
	return &buffer{buf: buf, queue: b.queue, size: size, visible: visible}, nil
}

// image adapts a wgpu.Texture to gpu.Image.
type image struct {
	device *wgpu.Device
	tex    *wgpu.Texture
	format wgpu.TextureFormat
	size   gpu.Dim3D
}

func pixelFmt(pf gpu.PixelFmt) wgpu.TextureFormat {
	switch pf {
	case gpu.RGBA32f:
		return wgpu.TextureFormatRGBA32Float
	case gpu.RGBA16f:
		return wgpu.TextureFormatRGBA16Float
	case gpu.RGBA8un:
		return wgpu.TextureFormatRGBA8Unorm
	case gpu.R32f:
		return wgpu.TextureFormatR32Float
	case gpu.R32ui:
		return wgpu.TextureFormatR32Uint
	default:
		return wgpu.TextureFormatRGBA32Float
	}
}

func (b *Backend) NewImage(pf gpu.PixelFmt, size gpu.Dim3D, usg gpu.Usage) (gpu.Image, error) {
	fmt_ := pixelFmt(pf)
	dim := wgpu.TextureDimension2D
	depth := uint32(1)
	if size.Depth > 1 {
		dim = wgpu.TextureDimension3D
		depth = uint32(size.Depth)
	}
	var u wgpu.TextureUsage
	if usg&gpu.UShaderRead != 0 {
		u |= wgpu.TextureUsageTextureBinding
	}
	if usg&gpu.UShaderWrite != 0 {
		u |= wgpu.TextureUsageStorageBinding
	}
	if usg&gpu.UCopySrc != 0 {
		u |= wgpu.TextureUsageCopySrc
	}
	if usg&gpu.UCopyDst != 0 {
		u |= wgpu.TextureUsageCopyDst
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Size:          wgpu.Extent3D{Width: uint32(size.Width), Height: uint32(size.Height), DepthOrArrayLayers: depth},
		Dimension:     dim,
		Format:        fmt_,
		Usage:         u,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}
	return &image{device: b.device, tex: tex, format: fmt_, size: size}, nil
}

func (i *image) NewView(typ gpu.ViewType) (gpu.ImageView, error) {
	dim := wgpu.TextureViewDimension2D
	if typ == gpu.IView3D {
		dim = wgpu.TextureViewDimension3D
	}
	v, err := i.tex.CreateView(&wgpu.TextureViewDescriptor{
		Format:    i.format,
		Dimension: dim,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}
	return &imageView{v: v}, nil
}

func (i *image) Destroy() { i.tex.Release() }

type imageView struct{ v *wgpu.TextureView }

func (v *imageView) Destroy() { v.v.Release() }

// sampler adapts a wgpu.Sampler to gpu.Sampler.
type sampler struct{ s *wgpu.Sampler }

func (s *sampler) Destroy() { s.s.Release() }

func addrMode(a gpu.AddrMode) wgpu.AddressMode {
	switch a {
	case gpu.AWrap:
		return wgpu.AddressModeRepeat
	default:
		return wgpu.AddressModeClampToEdge
	}
}

func filterMode(f gpu.Filter) wgpu.FilterMode {
	if f == gpu.FLinear {
		return wgpu.FilterModeLinear
	}
	return wgpu.FilterModeNearest
}

func (b *Backend) NewSampler(spln *gpu.Sampling) (gpu.Sampler, error) {
	s, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  addrMode(spln.AddrU),
		AddressModeV:  addrMode(spln.AddrV),
		AddressModeW:  addrMode(spln.AddrW),
		MagFilter:     filterMode(spln.Mag),
		MinFilter:     filterMode(spln.Min),
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	return &sampler{s: s}, nil
}

func (b *Backend) NewCmdBuffer() (gpu.CmdBuffer, error) {
	return newCmdBuffer(b.device)
}

// shaderCode adapts a wgpu.ShaderModule to gpu.ShaderCode.
type shaderCode struct{ mod *wgpu.ShaderModule }

func (s *shaderCode) Destroy() { s.mod.Release() }

func (b *Backend) NewShaderCode(data []byte) (gpu.ShaderCode, error) {
	mod, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "crispen-compute",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: string(data)},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module: %w", err)
	}
	return &shaderCode{mod: mod}, nil
}
