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

// Package shelfutil contains the command-line interface for the
// Confined Shelf experiment.
package shelfutil

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/shelf"
	"github.com/spatialmodel/shelf/launch"
)

// Experiment holds the settings for one run of the experiment.
type Experiment struct {
	// ConfigFile is the model configuration file.
	ConfigFile string

	// Executable is the model executable.
	Executable string

	// Parallel is the number of processors for a parallel run.
	// If it is empty, the model is run serially.
	Parallel string

	Margin shelf.Margin
	Inflow shelf.Inflow

	// ScratchDir is where files matching StrayPatterns are moved after
	// the run. If it is empty, no files are moved.
	ScratchDir    string
	StrayPatterns []string

	// WorkDir is the directory the model writes its additional files in.
	// If it is empty, the current directory is used.
	WorkDir string

	Planner *launch.Planner
	Runner  *launch.Runner

	// Log receives progress messages. If nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

func (e *Experiment) log() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

func (e *Experiment) planner() *launch.Planner {
	if e.Planner == nil {
		return new(launch.Planner)
	}
	return e.Planner
}

func (e *Experiment) runner() *launch.Runner {
	if e.Runner == nil {
		return &launch.Runner{Log: e.Log}
	}
	return e.Runner
}

// Run runs the experiment: it creates the model input file, runs the model
// and moves any additional output to the scratch directory. The
// configuration and the launch settings are checked before anything is
// written.
func (e *Experiment) Run(ctx context.Context) error {
	cfg, err := shelf.ReadConfig(e.ConfigFile)
	if err != nil {
		return err
	}
	cmd, err := e.Command()
	if err != nil {
		return err
	}
	if err := e.writeInput(cfg); err != nil {
		return err
	}

	e.log().Info("running the model for the confined-shelf experiment")
	if err := e.runner().Run(ctx, cmd); err != nil {
		return err
	}

	if e.ScratchDir == "" {
		return nil
	}
	_, err = Relocate(e.WorkDir, e.ScratchDir, e.StrayPatterns,
		[]string{cfg.InputFile, e.ConfigFile, e.Executable}, e.log())
	return err
}

// WriteInput reads the model configuration and creates the model input
// file it names.
func (e *Experiment) WriteInput() (*shelf.Config, error) {
	cfg, err := shelf.ReadConfig(e.ConfigFile)
	if err != nil {
		return nil, err
	}
	return cfg, e.writeInput(cfg)
}

func (e *Experiment) writeInput(cfg *shelf.Config) error {
	b := &shelf.Builder{Margin: e.Margin, Inflow: e.Inflow, Log: e.log()}
	format, err := b.Create(cfg, cfg.InputFile)
	if err != nil {
		return err
	}
	e.log().WithFields(logrus.Fields{
		"file":   cfg.InputFile,
		"format": format,
	}).Info("wrote model input file")
	return nil
}

// Command returns the command that runs the model. Parallel is read as a
// decimal integer, so leading zeros do not change its value.
func (e *Experiment) Command() (launch.Command, error) {
	p := strings.TrimSpace(e.Parallel)
	if p == "" {
		return e.planner().Serial(e.Executable, e.ConfigFile), nil
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return launch.Command{}, fmt.Errorf("%w: parallel=%q is not an integer", launch.ErrInvalidWorkers, e.Parallel)
	}
	return e.planner().Parallel(e.Executable, e.ConfigFile, n)
}
