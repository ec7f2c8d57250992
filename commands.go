package main

import (
	"os"

	"github.com/faascluster/simulator/command"
	"github.com/faascluster/simulator/version"
	"github.com/mitchellh/cli"
)

// Commands returns the mapping of CLI commands for the simulator. The
// meta parameter lets you set meta options for all commands.
func Commands(metaPtr *command.Meta) map[string]cli.CommandFactory {
	if metaPtr == nil {
		metaPtr = new(command.Meta)
	}

	meta := *metaPtr
	if meta.UI == nil {
		meta.UI = &cli.BasicUi{
			Reader:      os.Stdin,
			Writer:      os.Stdout,
			ErrorWriter: os.Stderr,
		}
	}

	return map[string]cli.CommandFactory{
		"simulate": func() (cli.Command, error) {
			return &command.SimulateCommand{
				Meta: meta,
			}, nil
		},
		"init": func() (cli.Command, error) {
			return &command.InitCommand{
				Meta: meta,
			}, nil
		},
		"version": func() (cli.Command, error) {
			return &command.VersionCommand{
				Version:           version.Version,
				VersionPrerelease: version.VersionPrerelease,
				UI:                meta.UI,
			}, nil
		},
	}
}
