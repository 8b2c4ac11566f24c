// Package cube reads and writes 3D LUTs in the Iridas .cube text format
// (spec §4.10).
package cube

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crispen/core/colormath"
	"github.com/crispen/core/lut"
)

// Read parses a .cube file from r. It rejects files missing
// LUT_3D_SIZE or whose triplet count does not equal n^3 (spec §4.10).
func Read(r io.Reader) (*lut.LUT, error) {
	domainMin := colormath.Vec3{0, 0, 0}
	domainMax := colormath.Vec3{1, 1, 1}
	n := -1
	var values []float64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "TITLE":
			// Ignored: cosmetic only.
		case "DOMAIN_MIN":
			v, err := parseTriplet(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("cube: DOMAIN_MIN: %w", err)
			}
			domainMin = v
		case "DOMAIN_MAX":
			v, err := parseTriplet(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("cube: DOMAIN_MAX: %w", err)
			}
			domainMax = v
		case "LUT_3D_SIZE":
			if len(fields) < 2 {
				return nil, fmt.Errorf("cube: LUT_3D_SIZE: missing value")
			}
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("cube: LUT_3D_SIZE: %w", err)
			}
			n = v
		default:
			v, err := parseTriplet(fields)
			if err != nil {
				return nil, fmt.Errorf("cube: data line %q: %w", line, err)
			}
			values = append(values, v[0], v[1], v[2])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cube: scan: %w", err)
	}
	if n < 0 {
		return nil, fmt.Errorf("cube: missing LUT_3D_SIZE")
	}
	want := n * n * n * 3
	if len(values) != want {
		return nil, fmt.Errorf("cube: expected %d triplets, got %d", n*n*n, len(values)/3)
	}

	l := lut.New(n, domainMin, domainMax)
	i := 0
	for bi := 0; bi < n; bi++ {
		for gi := 0; gi < n; gi++ {
			for ri := 0; ri < n; ri++ {
				rgb := colormath.Vec3{values[i], values[i+1], values[i+2]}
				i += 3
				l.Set(ri, gi, bi, rgb)
			}
		}
	}
	return l, nil
}

func parseTriplet(fields []string) (colormath.Vec3, error) {
	if len(fields) < 3 {
		return colormath.Vec3{}, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	var v colormath.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return colormath.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

// Write emits l to w in the Iridas .cube format, six decimals per
// channel, data triplets in the mandatory bi*N^2+gi*N+ri order
// (spec §4.10).
func Write(w io.Writer, title string, l *lut.LUT) error {
	bw := bufio.NewWriter(w)
	if title != "" {
		if _, err := fmt.Fprintf(bw, "TITLE %q\n", title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "DOMAIN_MIN %.6f %.6f %.6f\n", l.DomainMin[0], l.DomainMin[1], l.DomainMin[2]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "DOMAIN_MAX %.6f %.6f %.6f\n", l.DomainMax[0], l.DomainMax[1], l.DomainMax[2]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", l.N); err != nil {
		return err
	}
	for bi := 0; bi < l.N; bi++ {
		for gi := 0; gi < l.N; gi++ {
			for ri := 0; ri < l.N; ri++ {
				e := l.At(ri, gi, bi)
				if _, err := fmt.Fprintf(bw, "%.6f %.6f %.6f\n", e[0], e[1], e[2]); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}
