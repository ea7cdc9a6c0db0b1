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

// Package launch runs the ice-sheet model executable, either directly or
// under whichever MPI launcher is available on the host.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	// ErrInvalidWorkers is returned, wrapped, when a parallel run is
	// requested with a worker count that is not a positive integer.
	ErrInvalidWorkers = errors.New("launch: number of processors specified for parallel run is <= 0")

	// ErrNoLauncher is returned, wrapped, when a parallel run is requested
	// but none of the known MPI launchers can be found.
	ErrNoLauncher = errors.New("launch: unable to execute parallel run")
)

// Launcher is an MPI launcher program.
type Launcher struct {
	// Name is the name of the launcher program.
	Name string

	// NumProcsFlag is the flag that passes the number of processes to
	// the launcher. It is empty for launchers that take the number of
	// processes from the batch system instead.
	NumProcsFlag string
}

// prefix returns the launcher command line for n processes.
func (l Launcher) prefix(n int) []string {
	if l.NumProcsFlag == "" {
		return []string{l.Name}
	}
	return []string{l.Name, l.NumProcsFlag, strconv.Itoa(n)}
}

// Launchers are the launchers that are looked for, in order of preference.
var Launchers = []Launcher{
	{Name: "openmpirun", NumProcsFlag: "-np"},
	{Name: "mpirun", NumProcsFlag: "-np"},
	{Name: "aprun", NumProcsFlag: "-n"},
	{Name: "mpirun.lsf"}, // LSF sets the number of processes.
}

// Mode is the way the model is run.
type Mode int

// These are the run modes.
const (
	Serial Mode = iota
	Parallel
)

func (m Mode) String() string {
	if m == Parallel {
		return "parallel"
	}
	return "serial"
}

// Command is a command line that runs the model.
type Command struct {
	Mode Mode
	Path string
	Args []string
}

// String returns the command line as it would be typed in a shell.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// LookPathFunc searches for an executable the way exec.LookPath does.
type LookPathFunc func(file string) (string, error)

// Planner creates the command line for a model run.
type Planner struct {
	// Launchers are probed in order for parallel runs. If nil, the
	// package-level Launchers are used.
	Launchers []Launcher

	// LookPath reports whether a launcher is installed. It must not run
	// the launcher. If nil, exec.LookPath is used.
	LookPath LookPathFunc
}

// Serial returns the command that runs executable on configFile as
// a single process.
func (p *Planner) Serial(executable, configFile string) Command {
	return Command{Mode: Serial, Path: executable, Args: []string{configFile}}
}

// Parallel returns the command that runs executable on configFile with
// n processes, using the first available launcher.
func (p *Planner) Parallel(executable, configFile string, n int) (Command, error) {
	if n <= 0 {
		return Command{}, fmt.Errorf("%w (%d)", ErrInvalidWorkers, n)
	}
	l, err := p.Probe()
	if err != nil {
		return Command{}, fmt.Errorf("%w. Please run the model manually with something like: "+
			"mpirun -np %d %s %s", err, n, executable, configFile)
	}
	args := append(l.prefix(n)[1:], executable, configFile)
	return Command{Mode: Parallel, Path: l.Name, Args: args}, nil
}

// Probe returns the first launcher that is installed.
func (p *Planner) Probe() (Launcher, error) {
	launchers := p.Launchers
	if launchers == nil {
		launchers = Launchers
	}
	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	names := make([]string, len(launchers))
	for i, l := range launchers {
		if _, err := lookPath(l.Name); err == nil {
			return l, nil
		}
		names[i] = l.Name
	}
	return Launcher{}, fmt.Errorf("%w: none of %s found", ErrNoLauncher, strings.Join(names, ", "))
}
