/*
Copyright © 2026 the confined shelf authors.
This file is part of shelf.

shelf is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

shelf is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with shelf.  If not, see <http://www.gnu.org/licenses/>.
*/

package shelf

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func testGrid(t *testing.T, nx, ny, nz int) *Grid {
	g, err := NewGrid(&Config{EWN: nx, NSN: ny, UPN: nz, DEW: 2500, DNS: 2500, InputFile: "x.nc"})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFieldShapes(t *testing.T) {
	const nx, ny, nz = 12, 9, 5
	fs, err := BuildFields(testGrid(t, nx, ny, nz), MarginSouth, InflowNone)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]int{
		"time":      {1},
		"x1":        {nx},
		"y1":        {ny},
		"x0":        {nx - 1},
		"y0":        {ny - 1},
		"thk":       {1, ny, nx},
		"acab":      {1, ny, nx},
		"kinbcmask": {1, ny - 1, nx - 1},
		"topg":      {1, ny, nx},
		"beta":      {1, ny - 1, nx - 1},
		"uvel":      {1, nz, ny - 1, nx - 1},
		"vvel":      {1, nz, ny - 1, nx - 1},
	}
	if len(fs.Fields) != len(want) {
		t.Errorf("have %d fields, want %d", len(fs.Fields), len(want))
	}
	for _, f := range fs.Fields {
		shape, ok := want[f.Name]
		if !ok {
			t.Errorf("unexpected field %s", f.Name)
			continue
		}
		if !reflect.DeepEqual(f.Data.Shape, shape) {
			t.Errorf("%s: shape %v != %v", f.Name, f.Data.Shape, shape)
		}
		if len(f.Dims) != len(shape) {
			t.Errorf("%s: dims %v don't match shape %v", f.Name, f.Dims, shape)
		}
		for i, d := range f.Dims {
			if fs.Grid.dimLen(d) != shape[i] {
				t.Errorf("%s: dimension %s has length %d, want %d", f.Name, d, fs.Grid.dimLen(d), shape[i])
			}
		}
	}
	if fs.Field("kinbcmask").Type != Int {
		t.Error("kinbcmask should be stored as an integer")
	}
}

// The expected values below are written out cell by cell, independently
// of the region tables.
func inBand(lo, hi, i int) bool { return i >= lo && i < hi }

type cellRule func(nx, ny, j, i int) bool

var maskRules = map[Margin]cellRule{
	MarginSouth: func(nx, ny, j, i int) bool { return j >= ny-4 || i < 3 || i >= nx-4 },
	MarginNorth: func(nx, ny, j, i int) bool { return j < 3 || i < 3 || i >= nx-4 },
	MarginEast:  func(nx, ny, j, i int) bool { return i < 3 || j < 3 || j >= ny-4 },
	MarginWest:  func(nx, ny, j, i int) bool { return i >= nx-4 || j < 3 || j >= ny-4 },
}

var bedRules = map[Margin]cellRule{
	MarginSouth: func(nx, ny, j, i int) bool { return j >= ny-4 || i < 4 || i >= nx-4 },
	MarginNorth: func(nx, ny, j, i int) bool { return j < 4 || i < 4 || i >= nx-4 },
	MarginEast:  func(nx, ny, j, i int) bool { return i < 4 || j < 4 || j >= ny-4 },
	MarginWest:  func(nx, ny, j, i int) bool { return i >= nx-4 || j < 4 || j >= ny-4 },
}

var iceRules = map[Margin]cellRule{
	MarginSouth: func(nx, ny, j, i int) bool { return inBand(4, ny-2, j) && inBand(2, nx-2, i) },
	MarginNorth: func(nx, ny, j, i int) bool { return inBand(2, ny-4, j) && inBand(2, nx-2, i) },
	MarginEast:  func(nx, ny, j, i int) bool { return inBand(2, ny-2, j) && inBand(2, nx-4, i) },
	MarginWest:  func(nx, ny, j, i int) bool { return inBand(2, ny-2, j) && inBand(4, nx-2, i) },
}

func TestBoundaryPolicy(t *testing.T) {
	for _, m := range []Margin{MarginSouth, MarginNorth, MarginEast, MarginWest} {
		for nx := 6; nx <= 11; nx++ {
			for ny := 6; ny <= 11; ny++ {
				fs, err := BuildFields(testGrid(t, nx, ny, 3), m, InflowNone)
				if err != nil {
					t.Fatal(err)
				}
				mask := fs.Field("kinbcmask").Data
				for j := 0; j < ny-1; j++ {
					for i := 0; i < nx-1; i++ {
						want := 0.
						if maskRules[m](nx, ny, j, i) {
							want = 1
						}
						if v := mask.Get(0, j, i); v != want {
							t.Errorf("%v %dx%d: kinbcmask[%d,%d] = %g, want %g", m, nx, ny, j, i, v, want)
						}
						if v := fs.Field("beta").Data.Get(0, j, i); v != 0 {
							t.Errorf("%v %dx%d: beta[%d,%d] = %g, want 0", m, nx, ny, j, i, v)
						}
					}
				}
				for j := 0; j < ny; j++ {
					for i := 0; i < nx; i++ {
						wantBed := oceanFloor
						if bedRules[m](nx, ny, j, i) {
							wantBed = groundedBed
						}
						if v := fs.Field("topg").Data.Get(0, j, i); v != wantBed {
							t.Errorf("%v %dx%d: topg[%d,%d] = %g, want %g", m, nx, ny, j, i, v, wantBed)
						}
						wantThk := 0.
						if iceRules[m](nx, ny, j, i) {
							wantThk = shelfThickness
						}
						if v := fs.Field("thk").Data.Get(0, j, i); v != wantThk {
							t.Errorf("%v %dx%d: thk[%d,%d] = %g, want %g", m, nx, ny, j, i, v, wantThk)
						}
						wantAcab := accumulation
						if j >= ny-3 || i < 3 || i >= nx-3 {
							wantAcab = 0
						}
						if v := fs.Field("acab").Data.Get(0, j, i); v != wantAcab {
							t.Errorf("%v %dx%d: acab[%d,%d] = %g, want %g", m, nx, ny, j, i, v, wantAcab)
						}
					}
				}
			}
		}
	}
}

func TestBuildFieldsDeterministic(t *testing.T) {
	g := testGrid(t, 20, 23, 4)
	a, err := BuildFields(g, MarginSouth, InflowNone)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildFields(g, MarginSouth, InflowNone)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"thk", "topg", "kinbcmask", "beta", "acab"} {
		if !reflect.DeepEqual(a.Field(name).Data.Elements, b.Field(name).Data.Elements) {
			t.Errorf("%s differs between builds", name)
		}
		if a.Field(name).Data == b.Field(name).Data {
			t.Errorf("%s shares storage between builds", name)
		}
	}
}

func TestGaussianInflow(t *testing.T) {
	const nx, ny, nz = 10, 8, 3
	p := GaussianInflow(nx)
	if len(p) != nx-2 {
		t.Fatalf("profile length %d != %d", len(p), nx-2)
	}
	peak := inflowPeak / (2 * math.Pi * inflowWidth)
	// x = i/(nx-2) - 0.5 is zero at i = (nx-2)/2.
	if p[4] != peak {
		t.Errorf("centre value %g != %g", p[4], peak)
	}
	for i := 0; i < 4; i++ {
		if p[i] >= 0 || p[i] < peak {
			t.Errorf("p[%d] = %g is outside (%g, 0)", i, p[i], peak)
		}
	}

	t.Run("none", func(t *testing.T) {
		fs, err := BuildFields(testGrid(t, nx, ny, nz), MarginSouth, InflowNone)
		if err != nil {
			t.Fatal(err)
		}
		if s := fs.Field("vvel").Data.Sum(); s != 0 {
			t.Errorf("vvel sum %g != 0", s)
		}
	})
	t.Run("gaussian", func(t *testing.T) {
		fs, err := BuildFields(testGrid(t, nx, ny, nz), MarginSouth, InflowGaussian)
		if err != nil {
			t.Fatal(err)
		}
		vvel := fs.Field("vvel").Data
		for k := 0; k < nz; k++ {
			for j := 0; j < ny-1; j++ {
				for i := 0; i < nx-1; i++ {
					want := 0.
					if j == ny-4 && i < nx-2 {
						want = p[i]
					}
					if v := vvel.Get(0, k, j, i); v != want {
						t.Errorf("vvel[0,%d,%d,%d] = %g, want %g", k, j, i, v, want)
					}
				}
			}
		}
		if s := fs.Field("uvel").Data.Sum(); s != 0 {
			t.Errorf("uvel sum %g != 0", s)
		}
	})
	t.Run("too few rows", func(t *testing.T) {
		_, err := BuildFields(testGrid(t, nx, 3, nz), MarginSouth, InflowGaussian)
		if !errors.Is(err, ErrConfig) {
			t.Errorf("error %v should be ErrConfig", err)
		}
	})
}

func TestParseMargin(t *testing.T) {
	for s, want := range map[string]Margin{"south": MarginSouth, "North": MarginNorth, "EAST": MarginEast, "west": MarginWest} {
		m, err := ParseMargin(s)
		if err != nil {
			t.Fatal(err)
		}
		if m != want {
			t.Errorf("%s: %v != %v", s, m, want)
		}
	}
	if _, err := ParseMargin("up"); !errors.Is(err, ErrConfig) {
		t.Errorf("error %v should be ErrConfig", err)
	}
	if _, err := BuildFields(testGrid(t, 8, 8, 2), Margin(7), InflowNone); !errors.Is(err, ErrConfig) {
		t.Errorf("error %v should be ErrConfig", err)
	}
}

func TestParseInflow(t *testing.T) {
	if in, err := ParseInflow("Gaussian"); err != nil || in != InflowGaussian {
		t.Errorf("have %v, %v; want gaussian", in, err)
	}
	if _, err := ParseInflow("linear"); !errors.Is(err, ErrConfig) {
		t.Errorf("error %v should be ErrConfig", err)
	}
}
