// Package shaders embeds the WGSL compute modules the LUT baker/applicator,
// scope dispatcher and format converter record against. The dispatch layer
// passes this source (not a kernel-name string) to gpu.GPU.NewShaderCode,
// so a real wgpu device compiles and runs it; cpuref treats it as opaque
// and resolves the entry point named in gpu.ShaderFunc.Name instead.
package shaders

import _ "embed"

//go:embed bake.wgsl
var Bake string

//go:embed apply.wgsl
var Apply string

//go:embed format_convert.wgsl
var FormatConvert string

//go:embed histogram.wgsl
var Histogram string

//go:embed waveform.wgsl
var Waveform string

//go:embed vectorscope.wgsl
var Vectorscope string

//go:embed cie.wgsl
var CIE string
