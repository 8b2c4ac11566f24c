package cube

import (
	"strings"
	"testing"

	"github.com/crispen/core/colormath"
	"github.com/crispen/core/lut"
)

func TestWriteReadRoundTrip(t *testing.T) {
	n := 3
	l := lut.New(n, colormath.Vec3{0, 0, 0}, colormath.Vec3{1, 1, 1})
	for bi := 0; bi < n; bi++ {
		for gi := 0; gi < n; gi++ {
			for ri := 0; ri < n; ri++ {
				l.Set(ri, gi, bi, l.GridCoord(ri, gi, bi))
			}
		}
	}

	var sb strings.Builder
	if err := Write(&sb, "test", l); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.N != n {
		t.Fatalf("N = %d, want %d", got.N, n)
	}
	for bi := 0; bi < n; bi++ {
		for gi := 0; gi < n; gi++ {
			for ri := 0; ri < n; ri++ {
				want := l.At(ri, gi, bi)
				have := got.At(ri, gi, bi)
				for c := 0; c < 3; c++ {
					if diff := want[c] - have[c]; diff > 1e-5 || diff < -1e-5 {
						t.Errorf("entry (%d,%d,%d)[%d] = %v, want %v", ri, gi, bi, c, have[c], want[c])
					}
				}
			}
		}
	}
}

func TestReadRejectsMissingSize(t *testing.T) {
	_, err := Read(strings.NewReader("0.0 0.0 0.0\n"))
	if err == nil {
		t.Fatalf("expected error for missing LUT_3D_SIZE")
	}
}

func TestReadRejectsWrongTripletCount(t *testing.T) {
	_, err := Read(strings.NewReader("LUT_3D_SIZE 2\n0.0 0.0 0.0\n"))
	if err == nil {
		t.Fatalf("expected error for triplet count mismatch")
	}
}

func TestReadSkipsCommentsAndBlankLines(t *testing.T) {
	src := "# a comment\n\nLUT_3D_SIZE 1\n\n# another\n1.0 1.0 1.0\n"
	l, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	e := l.At(0, 0, 0)
	if e[0] != 1 || e[1] != 1 || e[2] != 1 {
		t.Errorf("entry = %v, want [1 1 1]", e)
	}
}
