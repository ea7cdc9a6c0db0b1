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

	"github.com/go-ini/ini"
)

// ErrConfig is returned, wrapped, when the model configuration is missing
// a required setting or contains one that cannot be used.
var ErrConfig = errors.New("shelf: invalid configuration")

// Config holds the settings read from the model configuration file
// that are needed to create the input file.
type Config struct {
	// EWN, NSN and UPN are the number of grid points in the east-west,
	// north-south and vertical directions.
	EWN, NSN, UPN int

	// DEW and DNS are the east-west and north-south grid spacings.
	DEW, DNS float64

	// InputFile is the path of the NetCDF file the model reads its
	// initial conditions from.
	InputFile string
}

// ReadConfig reads the model configuration file at path. Section and
// key names are matched without regard to case.
func ReadConfig(path string) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrConfig, path, err)
	}
	return configFromINI(f)
}

// ParseConfig parses model configuration text.
func ParseConfig(data []byte) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return configFromINI(f)
}

func configFromINI(f *ini.File) (*Config, error) {
	var (
		c   Config
		err error
	)
	if c.EWN, err = intKey(f, "grid", "ewn"); err != nil {
		return nil, err
	}
	if c.NSN, err = intKey(f, "grid", "nsn"); err != nil {
		return nil, err
	}
	if c.UPN, err = intKey(f, "grid", "upn"); err != nil {
		return nil, err
	}
	if c.DEW, err = floatKey(f, "grid", "dew"); err != nil {
		return nil, err
	}
	if c.DNS, err = floatKey(f, "grid", "dns"); err != nil {
		return nil, err
	}
	k, err := key(f, "CF input", "name")
	if err != nil {
		return nil, err
	}
	c.InputFile = k.String()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that c describes a usable grid. Every dimension needs
// at least two points so that the staggered grid is not empty.
func (c *Config) Validate() error {
	for _, d := range []struct {
		name string
		n    int
	}{{"ewn", c.EWN}, {"nsn", c.NSN}, {"upn", c.UPN}} {
		if d.n < 2 {
			return fmt.Errorf("%w: [grid] %s must be at least 2 but is %d", ErrConfig, d.name, d.n)
		}
	}
	if c.DEW <= 0 {
		return fmt.Errorf("%w: [grid] dew must be positive but is %g", ErrConfig, c.DEW)
	}
	if c.DNS <= 0 {
		return fmt.Errorf("%w: [grid] dns must be positive but is %g", ErrConfig, c.DNS)
	}
	if c.InputFile == "" {
		return fmt.Errorf("%w: [CF input] name is empty", ErrConfig)
	}
	return nil
}

func key(f *ini.File, section, name string) (*ini.Key, error) {
	s, err := f.GetSection(section)
	if err != nil {
		return nil, fmt.Errorf("%w: missing section [%s]", ErrConfig, section)
	}
	k, err := s.GetKey(name)
	if err != nil {
		return nil, fmt.Errorf("%w: missing key %s in section [%s]", ErrConfig, name, section)
	}
	return k, nil
}

func intKey(f *ini.File, section, name string) (int, error) {
	k, err := key(f, section, name)
	if err != nil {
		return 0, err
	}
	v, err := k.Int()
	if err != nil {
		return 0, fmt.Errorf("%w: [%s] %s: %v", ErrConfig, section, name, err)
	}
	return v, nil
}

func floatKey(f *ini.File, section, name string) (float64, error) {
	k, err := key(f, section, name)
	if err != nil {
		return 0, err
	}
	v, err := k.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: [%s] %s: %v", ErrConfig, section, name, err)
	}
	return v, nil
}
