package grading

import (
	"fmt"
	"os"

	"github.com/crispen/core/colormath"
	"github.com/crispen/core/cube"
	"github.com/crispen/core/lut"
	"github.com/crispen/core/transform"
)

// Command is the tagged variant the driver/UI sends into the core
// (spec §6 "Command protocol").
type Command interface{ isCommand() }

type SetParams struct{ Params transform.Params }
type AutoBalance struct{}
type ResetGrade struct{}
type LoadImage struct{ Image *Image }
type LoadLut struct {
	Path     string
	SlotName string
}
type ExportLut struct {
	Path string
	Size int
}
type ToggleScope struct {
	Name    string
	Visible bool
}

func (SetParams) isCommand()   {}
func (AutoBalance) isCommand() {}
func (ResetGrade) isCommand()  {}
func (LoadImage) isCommand()   {}
func (LoadLut) isCommand()     {}
func (ExportLut) isCommand()   {}
func (ToggleScope) isCommand() {}

// Event is the tagged variant emitted back to the driver/UI after a
// command is accepted or a frame completes (spec §6 "Event protocol").
type Event interface{ isEvent() }

type ParamsUpdated struct{ Params transform.Params }
type ImageLoaded struct {
	Width, Height int
	BitDepth      BitDepth
}
type ScopeDataReady struct{}
type LutLoaded struct{ SlotName string }
type LutExported struct{ Path string }

func (ParamsUpdated) isEvent()  {}
func (ImageLoaded) isEvent()    {}
func (ScopeDataReady) isEvent() {}
func (LutLoaded) isEvent()      {}
func (LutExported) isEvent()    {}

// DomainMin and DomainMax are the default LUT domain bounds used by
// ExportLut (spec §3 "Domain min/max vectors permit non-default ranges";
// ExportLut carries only a size, so the identity domain is assumed).
var (
	DomainMin = colormath.Vec3{0, 0, 0}
	DomainMax = colormath.Vec3{1, 1, 1}
)

// Apply executes cmd against s, returning the events it produces.
// LoadLut and ExportLut perform file I/O directly against the cube
// package; LoadImage takes an already-decoded Image, since decoding
// source image formats is the driver's responsibility, not the core's
// (spec §4.9's command handling).
func (s *State) Apply(cmd Command) ([]Event, error) {
	switch c := cmd.(type) {
	case SetParams:
		s.SetParams(c.Params)
		return []Event{ParamsUpdated{Params: s.Params}}, nil

	case AutoBalance:
		temp, tint := AutoWhiteBalance(s.Image)
		p := s.Params
		p.Sliders.Temperature = temp
		p.Sliders.Tint = tint
		s.SetParams(p)
		return []Event{ParamsUpdated{Params: s.Params}}, nil

	case ResetGrade:
		s.ResetGrade()
		return []Event{ParamsUpdated{Params: s.Params}}, nil

	case LoadImage:
		s.LoadImage(c.Image)
		return []Event{ImageLoaded{Width: c.Image.Width, Height: c.Image.Height, BitDepth: c.Image.SourceDepth}}, nil

	case LoadLut:
		f, err := os.Open(c.Path)
		if err != nil {
			return nil, fmt.Errorf("grading: load lut: %w", err)
		}
		defer f.Close()
		l, err := cube.Read(f)
		if err != nil {
			return nil, fmt.Errorf("grading: load lut: %w", err)
		}
		if s.CreativeLUTs == nil {
			s.CreativeLUTs = map[string]*lut.LUT{}
		}
		s.CreativeLUTs[c.SlotName] = l
		return []Event{LutLoaded{SlotName: c.SlotName}}, nil

	case ExportLut:
		baked := lut.BakeCPU(c.Size, DomainMin, DomainMax, &s.Params)
		f, err := os.Create(c.Path)
		if err != nil {
			return nil, fmt.Errorf("grading: export lut: %w", err)
		}
		defer f.Close()
		if err := cube.Write(f, "crispen export", baked); err != nil {
			return nil, fmt.Errorf("grading: export lut: %w", err)
		}
		return []Event{LutExported{Path: c.Path}}, nil

	case ToggleScope:
		if s.ScopeVisibility == nil {
			s.ScopeVisibility = map[string]bool{}
		}
		s.ScopeVisibility[c.Name] = c.Visible
		return nil, nil

	default:
		return nil, fmt.Errorf("grading: unknown command %T", cmd)
	}
}
