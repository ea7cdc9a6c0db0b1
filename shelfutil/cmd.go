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

package shelfutil

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/shelf"
	"github.com/spatialmodel/shelf/launch"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the harness.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the model configuration file. The grid
              dimensions and the input file name are read from it, and it
              is passed to the model executable.`,
			shorthand:  "c",
			defaultVal: "confined-shelf.config",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "parallel",
			usage: `
              parallel specifies the number of processors to run the model
              with. If it is specified, the model is run in parallel under
              the first MPI launcher found among openmpirun, mpirun, aprun
              and mpirun.lsf. [default: perform a serial run]`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.Flags()},
		},
		{
			name: "exec",
			usage: `
              exec specifies the path to the model executable.`,
			shorthand:  "e",
			defaultVal: "./cism_driver",
			flagsets:   []*pflag.FlagSet{Root.Flags()},
		},
		{
			name: "margin",
			usage: `
              margin specifies the edge of the domain along which the shelf
              margin lies: south, north, east or west. The other edges are
              held fixed with a kinematic boundary condition.`,
			defaultVal: "south",
			flagsets:   []*pflag.FlagSet{Root.Flags(), inputCmd.Flags()},
		},
		{
			name: "inflow",
			usage: `
              inflow specifies the velocity imposed at the upstream edge of
              the shelf: none, or gaussian for an ice-stream-like profile.`,
			defaultVal: "none",
			flagsets:   []*pflag.FlagSet{Root.Flags(), inputCmd.Flags()},
		},
		{
			name: "scratch",
			usage: `
              scratch specifies a directory that additional files written
              by the model are moved to after the run. If it is empty, no
              files are moved.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.Flags()},
		},
		{
			name: "stray",
			usage: `
              stray specifies glob patterns matching the additional files
              that are moved to the scratch directory.`,
			defaultVal: []string{"*.log"},
			flagsets:   []*pflag.FlagSet{Root.Flags()},
		},
		{
			name: "verbose",
			usage: `
              verbose turns on debug logging.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CISM")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(inputCmd)
}

// setLogLevel sets the logging level from the verbose option.
func setLogLevel() error {
	if Cfg.GetBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	return nil
}

// Root is the main command. It runs the whole experiment.
var Root = &cobra.Command{
	Use:   "confinedshelf",
	Short: "Run the Confined Shelf experiment.",
	Long: `confinedshelf runs the "Confined Shelf" ice-sheet model experiment.
It creates a NetCDF input file from the grid described in the model
configuration file, runs the model executable on that configuration file,
either as a single process or under an MPI launcher, and finally moves any
additional files the model wrote to a scratch directory.

Configuration can be changed by using command-line arguments or by setting
environment variables in the format 'CISM_var' where 'var' is the name of
the option to be set.`,
	DisableAutoGenTag: true,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setLogLevel() },
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		e, err := newExperiment(Cfg)
		if err != nil {
			return err
		}
		return e.Run(ctx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of confinedshelf.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("confinedshelf v%s\n", shelf.Version)
	},
	DisableAutoGenTag: true,
}

// inputCmd is a command that only creates the model input file.
var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "Create the model input file",
	Long: `input creates the NetCDF input file named in the [CF input] section
of the model configuration file, without running the model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newExperiment(Cfg)
		if err != nil {
			return err
		}
		_, err = e.WriteInput()
		return err
	},
	DisableAutoGenTag: true,
}

// newExperiment creates an experiment from the options in cfg.
func newExperiment(cfg *viper.Viper) (*Experiment, error) {
	m, err := shelf.ParseMargin(cfg.GetString("margin"))
	if err != nil {
		return nil, err
	}
	in, err := shelf.ParseInflow(cfg.GetString("inflow"))
	if err != nil {
		return nil, err
	}
	stray, err := cast.ToStringSliceE(cfg.Get("stray"))
	if err != nil {
		return nil, fmt.Errorf("%w: stray: %v", shelf.ErrConfig, err)
	}
	configFile := cfg.GetString("config")
	if configFile == "" {
		return nil, fmt.Errorf("%w: no configuration file specified", shelf.ErrConfig)
	}
	return &Experiment{
		ConfigFile:    configFile,
		Executable:    cfg.GetString("exec"),
		Parallel:      cfg.GetString("parallel"),
		Margin:        m,
		Inflow:        in,
		ScratchDir:    cfg.GetString("scratch"),
		StrayPatterns: stray,
		Planner:       new(launch.Planner),
		Runner:        &launch.Runner{Log: logrus.StandardLogger()},
	}, nil
}
