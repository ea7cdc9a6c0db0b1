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

import "gonum.org/v1/gonum/floats"

// Grid is the model grid. Scalar quantities such as thickness live on the
// primary grid (x1, y1); velocities and fluxes live on the staggered grid
// (x0, y0), whose points sit half a cell up and to the right of the primary
// points and which has one fewer point in each horizontal direction.
type Grid struct {
	NX, NY, NZ int
	DX, DY     float64

	X1, Y1 []float64 // primary axes
	X0, Y0 []float64 // staggered axes
}

// NewGrid creates the grid described by cfg.
func NewGrid(cfg *Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Grid{
		NX: cfg.EWN,
		NY: cfg.NSN,
		NZ: cfg.UPN,
		DX: cfg.DEW,
		DY: cfg.DNS,
	}
	g.X1 = axis(g.NX, g.DX)
	g.Y1 = axis(g.NY, g.DY)
	g.X0 = staggered(g.X1, g.DX)
	g.Y0 = staggered(g.Y1, g.DY)
	return g, nil
}

// axis returns n points spaced d apart, starting at zero.
func axis(n int, d float64) []float64 {
	a := make([]float64, n)
	for i := range a {
		a[i] = d * float64(i)
	}
	return a
}

// staggered returns the midpoints between consecutive points of the
// primary axis p with spacing d.
func staggered(p []float64, d float64) []float64 {
	s := make([]float64, len(p)-1)
	copy(s, p)
	floats.AddConst(d/2, s)
	return s
}
