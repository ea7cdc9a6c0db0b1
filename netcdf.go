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
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
)

// ErrIO is returned, wrapped, when the input file cannot be written.
var ErrIO = errors.New("shelf: writing input file")

// Format is a NetCDF file format.
type Format int

// These are the formats the input file can be written in.
const (
	// FormatClassic is the NetCDF classic format, with 32-bit offsets.
	FormatClassic Format = iota + 1

	// Format64BitOffset is the NetCDF 64-bit offset format.
	Format64BitOffset
)

func (f Format) String() string {
	switch f {
	case FormatClassic:
		return "NETCDF3_CLASSIC"
	case Format64BitOffset:
		return "NETCDF3_64BIT_OFFSET"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// writeFormats are tried in order. The model's I/O layer is built against
// the classic format; anything too large for it falls back to 64-bit
// offsets.
var writeFormats = []Format{FormatClassic, Format64BitOffset}

var errLayout = errors.New("variable layout needs 64-bit offsets")

// writeAttempt writes one format attempt.
var writeAttempt = writeNetCDF

// WriteNetCDF writes fs to a NetCDF file at path, trying each supported
// format in turn. It returns the format of the file that was written, or
// an error if no format could be written. The 64-bit offset attempt
// accepts whichever layout the header needs, so it may still produce a
// classic file.
func WriteNetCDF(path string, fs *FieldSet, log logrus.FieldLogger) (Format, error) {
	var err error
	for _, format := range writeFormats {
		var written Format
		if written, err = writeAttempt(path, fs, format); err == nil {
			return written, nil
		}
		log.WithFields(logrus.Fields{
			"file":   path,
			"format": format,
		}).Debugf("unable to write format: %v", err)
	}
	return 0, fmt.Errorf("%w %s: %v", ErrIO, path, err)
}

// header creates the NetCDF header describing fs.
func header(fs *FieldSet) *cdf.Header {
	g := fs.Grid
	dims := []string{DimTime, DimX1, DimY1, DimLevel, DimX0, DimY0}
	lengths := make([]int, len(dims))
	for i, d := range dims {
		lengths[i] = g.dimLen(d)
	}
	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "title", "Confined shelf experiment")
	for _, f := range fs.Fields {
		if f.Type == Int {
			h.AddVariable(f.Name, f.Dims, []int32{0})
		} else {
			h.AddVariable(f.Name, f.Dims, []float32{0})
		}
		if f.Units != "" {
			h.AddAttribute(f.Name, "units", f.Units)
		}
		if f.LongName != "" {
			h.AddAttribute(f.Name, "long_name", f.LongName)
		}
	}
	h.Define()
	return h
}

// isClassic reports whether the defined header h fits in 32-bit offsets.
func isClassic(h *cdf.Header) bool {
	return strings.HasPrefix(h.String(), "version:V1")
}

// layout returns the format of the defined header h.
func layout(h *cdf.Header) Format {
	if isClassic(h) {
		return FormatClassic
	}
	return Format64BitOffset
}

// writeNetCDF writes fs to path. A classic attempt fails if the fields
// need 64-bit offsets. It returns the format of the file it wrote.
func writeNetCDF(path string, fs *FieldSet, format Format) (written Format, err error) {
	h := header(fs)
	written = layout(h)
	if format == FormatClassic && written != FormatClassic {
		return 0, errLayout
	}
	if errs := h.Check(); len(errs) != 0 {
		return 0, fmt.Errorf("invalid header: %v", errs)
	}

	ff, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := ff.Close(); err == nil && cerr != nil {
			written, err = 0, cerr
		}
	}()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return 0, err
	}
	for _, fld := range fs.Fields {
		end := f.Header.Lengths(fld.Name)
		start := make([]int, len(end))
		w := f.Writer(fld.Name, start, end)
		if _, err := w.Write(fld.values()); err != nil {
			return 0, fmt.Errorf("writing %s: %v", fld.Name, err)
		}
	}
	if err := ff.Sync(); err != nil {
		return 0, err
	}
	return written, nil
}
