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
	"strings"
)

// Margin specifies the edge of the domain along which the shelf margin
// lies. The other three edges are held fixed with a kinematic
// boundary condition over grounded ice.
type Margin int

// These are the available margins. The south margin is the one at the
// high row indices.
const (
	MarginSouth Margin = iota
	MarginNorth
	MarginEast
	MarginWest
)

var marginNames = [...]string{"south", "north", "east", "west"}

func (m Margin) String() string {
	if m < 0 || int(m) >= len(marginNames) {
		return fmt.Sprintf("Margin(%d)", int(m))
	}
	return marginNames[m]
}

// ParseMargin returns the margin with the given name.
func ParseMargin(s string) (Margin, error) {
	for i, n := range marginNames {
		if strings.EqualFold(s, n) {
			return Margin(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown margin %q; valid values are %s",
		ErrConfig, s, strings.Join(marginNames[:], ", "))
}

// bound is an array index measured either from the low edge of an axis or,
// when fromCount is set, from the number of grid points along that axis,
// so that a bound names the same index on primary and staggered fields.
type bound struct {
	off       int
	fromCount bool
}

func first(i int) bound { return bound{off: i} }
func last(i int) bound  { return bound{off: i, fromCount: true} }

var end = last(0)

func (b bound) index(count, length int) int {
	i := b.off
	if b.fromCount {
		i += count
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

// span is the half-open index range [lo, hi).
type span struct{ lo, hi bound }

var all = span{first(0), end}

func (s span) resolve(count, length int) (lo, hi int) {
	return s.lo.index(count, length), s.hi.index(count, length)
}

// region sets a rectangular block of a field to a constant value.
type region struct {
	field      string
	rows, cols span
	val        float64
}

// marginRegions gives, for each margin, the blocks of thickness,
// kinematic mask and topography that are overwritten after the fields
// are filled with their defaults.
var marginRegions = map[Margin][]region{
	MarginSouth: {
		{"thk", span{first(4), last(-2)}, span{first(2), last(-2)}, shelfThickness},
		{"kinbcmask", span{last(-4), end}, all, 1},
		{"kinbcmask", all, span{first(0), first(3)}, 1},
		{"kinbcmask", all, span{last(-4), end}, 1},
		{"topg", span{last(-4), end}, all, groundedBed},
		{"topg", all, span{first(0), first(4)}, groundedBed},
		{"topg", all, span{last(-4), end}, groundedBed},
	},
	MarginNorth: {
		{"thk", span{first(2), last(-4)}, span{first(2), last(-2)}, shelfThickness},
		{"kinbcmask", span{first(0), first(3)}, all, 1},
		{"kinbcmask", all, span{first(0), first(3)}, 1},
		{"kinbcmask", all, span{last(-4), end}, 1},
		{"topg", span{first(0), first(4)}, all, groundedBed},
		{"topg", all, span{first(0), first(4)}, groundedBed},
		{"topg", all, span{last(-4), end}, groundedBed},
	},
	// The east and west shelves are slightly wider north-south than
	// east-west.
	MarginEast: {
		{"thk", span{first(2), last(-2)}, span{first(2), last(-4)}, shelfThickness},
		{"kinbcmask", all, span{first(0), first(3)}, 1},
		{"kinbcmask", span{first(0), first(3)}, all, 1},
		{"kinbcmask", span{last(-4), end}, all, 1},
		{"topg", all, span{first(0), first(4)}, groundedBed},
		{"topg", span{first(0), first(4)}, all, groundedBed},
		{"topg", span{last(-4), end}, all, groundedBed},
	},
	MarginWest: {
		{"thk", span{first(2), last(-2)}, span{first(4), last(-2)}, shelfThickness},
		{"kinbcmask", all, span{last(-4), end}, 1},
		{"kinbcmask", span{first(0), first(3)}, all, 1},
		{"kinbcmask", span{last(-4), end}, all, 1},
		{"topg", all, span{last(-4), end}, groundedBed},
		{"topg", span{first(0), first(4)}, all, groundedBed},
		{"topg", span{last(-4), end}, all, groundedBed},
	},
}

// massBalanceRegions zero the accumulation near the edges so that ice
// does not build up where the velocity is held at zero.
var massBalanceRegions = []region{
	{"acab", span{last(-3), end}, all, 0},
	{"acab", all, span{first(0), first(3)}, 0},
	{"acab", all, span{last(-3), end}, 0},
}

// regions returns the overwrite table for m.
func (m Margin) regions() ([]region, error) {
	r, ok := marginRegions[m]
	if !ok {
		return nil, fmt.Errorf("%w: unknown margin %v", ErrConfig, m)
	}
	return append(append([]region(nil), r...), massBalanceRegions...), nil
}
