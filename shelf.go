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

// Package shelf builds the gridded input data for the "Confined Shelf"
// ice-sheet model experiment. It reads the grid geometry from a model
// configuration file, fills the thickness, topography, boundary-condition,
// mass-balance, friction and velocity fields on the model's staggered grid,
// and writes them to a NetCDF file that the model executable reads at
// startup.
package shelf

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Version gives the version number.
const Version = "1.0.0"

// Builder creates model input files. The zero value builds the default
// experiment: a shelf margin along the south edge and no inflow.
type Builder struct {
	// Margin selects the edge of the domain where the shelf margin lies.
	Margin Margin

	// Inflow selects the kinematic velocity written at the upstream edge.
	Inflow Inflow

	// Log receives progress messages. If nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

func (b *Builder) log() logrus.FieldLogger {
	if b.Log == nil {
		return logrus.StandardLogger()
	}
	return b.Log
}

// Build calculates the grid and fields described by cfg.
func (b *Builder) Build(cfg *Config) (*FieldSet, error) {
	g, err := NewGrid(cfg)
	if err != nil {
		return nil, err
	}
	return BuildFields(g, b.Margin, b.Inflow)
}

// Create builds the fields described by cfg and writes them to a NetCDF
// file at path, overwriting any existing file. It returns the format
// the file was written in.
func (b *Builder) Create(cfg *Config, path string) (Format, error) {
	if path == "" {
		return 0, fmt.Errorf("%w: no output file specified", ErrConfig)
	}
	fs, err := b.Build(cfg)
	if err != nil {
		return 0, err
	}
	b.log().WithFields(logrus.Fields{
		"file":   path,
		"margin": b.Margin,
		"inflow": b.Inflow,
	}).Info("writing model input file")
	return WriteNetCDF(path, fs, b.log())
}
