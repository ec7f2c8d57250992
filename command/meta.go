// Package command implements the simulator's CLI commands, following the
// mitchellh/cli command-factory pattern: one struct per subcommand, each
// embedding Meta for its shared fields.
package command

import (
	"flag"

	"github.com/mitchellh/cli"
)

// Meta embeds the fields common to every command: the UI used for output.
type Meta struct {
	UI cli.Ui
}

// FlagSet returns a flag.FlagSet that returns parse errors to the caller
// (flag.ContinueOnError) instead of exiting. Its usage and error output go
// to the flag package's default writer, stderr, not to the command's UI.
func (m *Meta) FlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}
