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
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/sparse"
)

// Values used to initialize the experiment, following the EISMINT
// ice shelf tests 3 and 4.
const (
	shelfThickness = 500.0   // m
	groundedBed    = -440.0  // m
	oceanFloor     = -2000.0 // m
	accumulation   = 0.25    // m/yr

	inflowPeak  = -1.5e3 // m/yr
	inflowWidth = 0.125  // fraction of the domain width
)

// Dimension names used in the input file.
const (
	DimTime  = "time"
	DimX1    = "x1"
	DimY1    = "y1"
	DimX0    = "x0"
	DimY0    = "y0"
	DimLevel = "level"
)

// DataType is the storage type of a field in the input file.
type DataType int

// These are the supported storage types.
const (
	Float DataType = iota
	Int
)

// Field is a named array on the model grid.
type Field struct {
	Name     string
	Dims     []string
	Type     DataType
	Units    string
	LongName string
	Data     *sparse.DenseArray
}

// float32s returns the field values converted for storage as NetCDF FLOAT.
func (f *Field) float32s() []float32 {
	o := make([]float32, len(f.Data.Elements))
	for i, v := range f.Data.Elements {
		o[i] = float32(v)
	}
	return o
}

// int32s returns the field values converted for storage as NetCDF INT.
func (f *Field) int32s() []int32 {
	o := make([]int32, len(f.Data.Elements))
	for i, v := range f.Data.Elements {
		o[i] = int32(v)
	}
	return o
}

// values returns the field values in their storage type.
func (f *Field) values() interface{} {
	if f.Type == Int {
		return f.int32s()
	}
	return f.float32s()
}

// fill overwrites the block r of f. The block is applied to the last two
// dimensions of f, for every index of the leading dimensions.
func (f *Field) fill(r region, nx, ny int) {
	shape := f.Data.Shape
	rows, cols := shape[len(shape)-2], shape[len(shape)-1]
	r0, r1 := r.rows.resolve(ny, rows)
	c0, c1 := r.cols.resolve(nx, cols)
	plane := rows * cols
	for p := 0; p < len(f.Data.Elements); p += plane {
		for j := r0; j < r1; j++ {
			for i := c0; i < c1; i++ {
				f.Data.Elements[p+j*cols+i] = r.val
			}
		}
	}
}

// Inflow specifies the kinematic velocity imposed at the upstream edge
// of the shelf.
type Inflow int

// These are the available inflow options.
const (
	// InflowNone holds the velocity at zero everywhere.
	InflowNone Inflow = iota

	// InflowGaussian imposes an ice-stream-like Gaussian profile of
	// southward velocity along the row at ny-4.
	InflowGaussian
)

var inflowNames = [...]string{"none", "gaussian"}

func (in Inflow) String() string {
	if in < 0 || int(in) >= len(inflowNames) {
		return fmt.Sprintf("Inflow(%d)", int(in))
	}
	return inflowNames[in]
}

// ParseInflow returns the inflow option with the given name.
func ParseInflow(s string) (Inflow, error) {
	for i, n := range inflowNames {
		if strings.EqualFold(s, n) {
			return Inflow(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown inflow %q; valid values are %s",
		ErrConfig, s, strings.Join(inflowNames[:], ", "))
}

// GaussianInflow returns the inflow velocity profile for a grid with nx
// points in the x direction. The profile has nx-2 values, one for each of
// the first nx-2 staggered columns.
func GaussianInflow(nx int) []float64 {
	if nx < 3 {
		return nil
	}
	p := make([]float64, nx-2)
	for i := range p {
		x := float64(i)/float64(nx-2) - 0.5
		p[i] = inflowPeak / (2 * math.Pi * inflowWidth) *
			math.Exp(-x*x/(2*inflowWidth*inflowWidth))
	}
	return p
}

// FieldSet holds the coordinates and data fields written to the input file,
// in the order they are written.
type FieldSet struct {
	Grid   *Grid
	Fields []*Field
}

// Field returns the field with the given name, or nil if there is none.
func (fs *FieldSet) Field(name string) *Field {
	for _, f := range fs.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// BuildFields creates the input fields on grid g with the shelf margin m
// and inflow option in.
func BuildFields(g *Grid, m Margin, in Inflow) (*FieldSet, error) {
	regions, err := m.regions()
	if err != nil {
		return nil, err
	}
	if in == InflowGaussian && g.NY < 4 {
		return nil, fmt.Errorf("%w: gaussian inflow needs nsn >= 4 but it is %d", ErrConfig, g.NY)
	}

	nx, ny, nz := g.NX, g.NY, g.NZ
	fs := &FieldSet{Grid: g}
	add := func(name string, dims []string, typ DataType, units, longName string, fill float64) *Field {
		shape := make([]int, len(dims))
		for i, d := range dims {
			shape[i] = g.dimLen(d)
		}
		f := &Field{
			Name:     name,
			Dims:     dims,
			Type:     typ,
			Units:    units,
			LongName: longName,
			Data:     sparse.ZerosDense(shape...),
		}
		if fill != 0 {
			for i := range f.Data.Elements {
				f.Data.Elements[i] = fill
			}
		}
		fs.Fields = append(fs.Fields, f)
		return f
	}
	coord := func(name, longName string, v []float64) {
		f := add(name, []string{name}, Float, "meter", longName, 0)
		copy(f.Data.Elements, v)
	}

	add("time", []string{DimTime}, Float, "year", "model time", 0)
	coord("x1", "Cartesian x-coordinate", g.X1)
	coord("y1", "Cartesian y-coordinate", g.Y1)
	coord("x0", "Cartesian x-coordinate, velocity grid", g.X0)
	coord("y0", "Cartesian y-coordinate, velocity grid", g.Y0)

	primary := []string{DimTime, DimY1, DimX1}
	stag := []string{DimTime, DimY0, DimX0}
	stag3d := []string{DimTime, DimLevel, DimY0, DimX0}
	add("thk", primary, Float, "meter", "ice thickness", 0)
	add("acab", primary, Float, "meter/year", "accumulation, ablation rate", accumulation)
	add("kinbcmask", stag, Int, "1", "mask for kinematic boundary condition", 0)
	add("topg", primary, Float, "meter", "bedrock topography", oceanFloor)
	add("beta", stag, Float, "Pa yr/m", "higher-order bed stress coefficient", 0)
	add("uvel", stag3d, Float, "meter/year", "ice velocity in x direction", 0)
	vvel := add("vvel", stag3d, Float, "meter/year", "ice velocity in y direction", 0)

	for _, r := range regions {
		fs.Field(r.field).fill(r, nx, ny)
	}

	if in == InflowGaussian {
		p := GaussianInflow(nx)
		for k := 0; k < nz; k++ {
			for i, v := range p {
				vvel.Data.Set(v, 0, k, ny-4, i)
			}
		}
	}
	return fs, nil
}

// dimLen returns the length of the named input file dimension.
func (g *Grid) dimLen(dim string) int {
	switch dim {
	case DimTime:
		return 1
	case DimX1:
		return g.NX
	case DimY1:
		return g.NY
	case DimX0:
		return g.NX - 1
	case DimY0:
		return g.NY - 1
	case DimLevel:
		return g.NZ
	}
	panic(fmt.Errorf("shelf: invalid dimension %q", dim))
}
