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

package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Executor runs a command and waits for it to finish.
type Executor interface {
	Execute(ctx context.Context, c Command) error
}

// Exec is an Executor that runs commands as child processes sharing
// the standard streams of the current process. A command is not started
// if ctx is already done. Once started, the child is left to handle
// interrupts itself and Execute waits for it to exit, so that an MPI
// launcher can pass the interrupt on to its ranks.
type Exec struct{}

// Execute implements Executor.
func (Exec) Execute(ctx context.Context, c Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Runner runs the model.
type Runner struct {
	// Executor runs the command. If nil, Exec is used.
	Executor Executor

	// Log receives progress messages. If nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

// Run runs c and blocks until it exits. The exit status of the model is
// logged but not returned as an error; an error is only returned if the
// command could not be started.
func (r *Runner) Run(ctx context.Context, c Command) error {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := r.Executor
	if e == nil {
		e = Exec{}
	}

	log = log.WithFields(logrus.Fields{
		"mode":    c.Mode,
		"command": c.String(),
	})
	log.Infof("executing %v run", c.Mode)
	err := e.Execute(ctx, c)
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		log.WithField("status", exitErr.ExitCode()).Warn("model exited with non-zero status")
		return nil
	case err != nil:
		return fmt.Errorf("launch: running %s: %w", c.Path, err)
	}
	log.Info("model run finished")
	return nil
}
