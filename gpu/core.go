package gpu

// CmdBuffer is the interface that defines a command buffer. Commands are
// recorded into command buffers and later committed to the GPU for
// execution. The usage is:
//
//	1. call Begin
//	2. call BeginWork, record Set*/Dispatch commands, call EndWork
//	3. call BeginBlit, record Copy*/Fill commands, call EndBlit
//	4. repeat 2-3 as needed
//	5. call End and, if it succeeds, GPU.Commit
//
// BeginWork/BeginBlit must not be nested, and must always be ended before
// another Begin* call and prior to the final End call.
type CmdBuffer interface {
	Destroyer

	// Begin prepares the command buffer for recording.
	Begin() error

	// BeginWork begins compute work. If wait is set, dispatches only
	// start once all previously recorded commands have completed.
	BeginWork(wait bool)

	// EndWork ends the current compute work.
	EndWork()

	// BeginBlit begins data transfer.
	BeginBlit(wait bool)

	// EndBlit ends the current data transfer.
	EndBlit()

	// SetPipeline sets the compute pipeline.
	SetPipeline(pl Pipeline)

	// SetDescTableComp sets a descriptor table range for the compute
	// pipeline.
	SetDescTableComp(table DescTable, start int, heapCopy []int)

	// Dispatch dispatches compute work groups. It must only be called
	// during compute work.
	Dispatch(grpCountX, grpCountY, grpCountZ int)

	// CopyBuffer copies data between buffers. It must only be called
	// during data transfer.
	CopyBuffer(param *BufferCopy)

	// CopyBufToImg copies data from a buffer to an image. It must only
	// be called during data transfer.
	CopyBufToImg(param *BufImgCopy)

	// CopyImgToBuf copies data from an image to a buffer. It must only
	// be called during data transfer.
	CopyImgToBuf(param *BufImgCopy)

	// Barrier inserts a number of global barriers in the command buffer.
	Barrier(b []Barrier)

	// Transition inserts image layout transitions.
	Transition(t []Transition)

	// End ends command recording and prepares the command buffer for
	// execution.
	End() error

	// Reset discards all recorded commands.
	Reset() error
}

// BufferCopy describes a buffer-to-buffer copy.
type BufferCopy struct {
	From    Buffer
	FromOff int64
	To      Buffer
	ToOff   int64
	Size    int64
}

// Off3D is a three-dimensional offset.
type Off3D struct{ X, Y, Z int }

// Dim3D is a three-dimensional size.
type Dim3D struct{ Width, Height, Depth int }

// BufImgCopy describes a copy between a buffer and an image.
// Stride is given in pixels; Stride[0] is the row length.
type BufImgCopy struct {
	Buf    Buffer
	BufOff int64
	Stride [2]int64
	Img    Image
	ImgOff Off3D
	Size   Dim3D
}

// Sync is the type of a synchronization scope.
type Sync int

// Synchronization scopes.
const (
	SComputeShading Sync = 1 << iota
	SCopy
	SAll
	SNone Sync = 0
)

// Access is the type of a memory access scope.
type Access int

// Memory access scopes.
const (
	AShaderRead Access = 1 << iota
	AShaderWrite
	ACopyRead
	ACopyWrite
	AAnyRead
	AAnyWrite
	ANone Access = 0
)

// Barrier represents a synchronization barrier.
type Barrier struct {
	SyncBefore   Sync
	SyncAfter    Sync
	AccessBefore Access
	AccessAfter  Access
}

// Layout is the type of an image layout.
type Layout int

// Image layouts.
const (
	LUndefined Layout = iota
	LCommon
	LCopySrc
	LCopyDst
	LShaderRead
	LShaderWrite
)

// Transition represents a layout transition on an image.
type Transition struct {
	Barrier
	LayoutBefore Layout
	LayoutAfter  Layout
	Img          Image
}

// ShaderCode is a compiled/compilable compute shader module.
type ShaderCode interface {
	Destroyer
}

// ShaderFunc names the entry point of a ShaderCode module.
type ShaderFunc struct {
	Code ShaderCode
	Name string
}

// DescType is the type of a descriptor.
type DescType int

// Descriptor types.
const (
	DBuffer DescType = iota
	DImage
	DConstant
	DTexture
	DSampler
)

// Descriptor describes one binding slot used by a compute shader.
type Descriptor struct {
	Type DescType
	Nr   int
	Len  int
}

// DescHeap is a set of descriptors of possibly multiple copies.
type DescHeap interface {
	Destroyer

	// New creates storage for n copies of each descriptor. Calling
	// New(0) frees all storage.
	New(n int) error

	// SetBuffer updates the buffer ranges of the given descriptor.
	SetBuffer(cpy, nr, start int, buf []Buffer, off, size []int64)

	// SetImage updates the image views of the given descriptor.
	SetImage(cpy, nr, start int, iv []ImageView)

	// SetSampler updates the samplers of the given descriptor.
	SetSampler(cpy, nr, start int, splr []Sampler)

	// Count returns the number of heap copies created by New.
	Count() int
}

// DescTable binds a number of descriptor heaps to a pipeline.
type DescTable interface {
	Destroyer
}

// CompState defines the state of a compute pipeline: a single compute
// shader plus the descriptor table describing resources it accesses.
type CompState struct {
	Func ShaderFunc
	Desc DescTable
}

// Pipeline is a compiled GPU pipeline.
type Pipeline interface {
	Destroyer
}

// Usage is a mask indicating valid uses for a buffer or image.
type Usage int

// Usage flags.
const (
	UShaderRead Usage = 1 << iota
	UShaderWrite
	UShaderSample
	UCopySrc
	UCopyDst
	UGeneric Usage = 1<<iota - 1
)

// Buffer is a fixed-size GPU buffer.
type Buffer interface {
	Destroyer

	// Visible reports whether the buffer is host-visible.
	Visible() bool

	// Bytes returns a slice of length Cap referring to the mapped
	// region. It is only valid between a completed MapAsync callback
	// and the matching Unmap call.
	Bytes() []byte

	// Cap returns the capacity of the buffer in bytes.
	Cap() int64

	// SetBytes uploads data at byte offset off via the device queue,
	// without requiring a CPU-visible mapping. Used for small one-shot
	// uploads such as uniform parameters (spec §4.8 "upload params to
	// uniform buffer").
	SetBytes(off int64, data []byte)

	// MapAsync requests asynchronous CPU access to [off, off+size) in
	// the given mode. cb is invoked with a nil error once the mapping
	// is ready, or a non-nil error if mapping failed or the device was
	// lost. The callback fires from a GPU.Poll call, never synchronously.
	MapAsync(mode MapMode, off, size int64, cb func(error))

	// Unmap invalidates the mapped range returned by Bytes.
	Unmap()
}

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Pixel formats.
const (
	RGBA32f PixelFmt = iota
	RGBA16f
	RGBA8un
	R32f
	R32ui
)

// Image is a GPU image/texture resource.
type Image interface {
	Destroyer

	// NewView creates a typed view of the image.
	NewView(typ ViewType) (ImageView, error)
}

// ViewType is the type of a resource view.
type ViewType int

// View types.
const (
	IView2D ViewType = iota
	IView3D
)

// ImageView is a typed view of an Image.
type ImageView interface {
	Destroyer
}

// Filter is the type of sampler filter.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
)

// AddrMode is the type of a sampler address mode.
type AddrMode int

// Address modes.
const (
	AClamp AddrMode = iota
	AWrap
)

// Sampler is an image sampler.
type Sampler interface {
	Destroyer
}

// Sampling describes sampler state.
type Sampling struct {
	Min, Mag Filter
	AddrU    AddrMode
	AddrV    AddrMode
	AddrW    AddrMode
}

// Limits describes implementation limits, immutable for the GPU's
// lifetime.
type Limits struct {
	MaxImage3D      int
	MaxDescHeaps    int
	MaxDBuffer      int
	MaxDImage       int
	MaxDTexture     int
	MaxDSampler     int
	MaxDBufferRange int64
	MaxDispatch     [3]int
	// SupportsFilterableF32 reports whether RGBA32Float images can be
	// sampled with hardware linear filtering. The LUT applicator does not
	// read it: it always samples with manual 8-tap arithmetic.
	SupportsFilterableF32 bool
}

// WorkItem bundles a recorded command buffer for submission through a
// channel-based completion protocol, mirroring the commit/channel idiom
// used throughout the teacher's render loop.
type WorkItem struct {
	CmdBuffer CmdBuffer
	Err       error
}

// Commit is a convenience wrapper over GPU.Commit for a single command
// buffer, returning the completion channel instead of requiring the
// caller to allocate one.
func Commit(g GPU, cb CmdBuffer) <-chan error {
	ch := make(chan error, 1)
	g.Commit([]CmdBuffer{cb}, ch)
	return ch
}
