// Package base carries the shared pieces of every CLI command: the UI, the
// logger, and a flag set with uniform help rendering.
package base

import (
	"bytes"
	"flag"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by every subcommand.
type Command struct {
	// Log is the logger for the command.
	Log hclog.Logger

	// UI is the terminal UI for the command.
	UI cli.Ui
}

// NewCommand returns a base command with the given logger and UI.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
	}
}

// FlagSet wraps flag.FlagSet with help rendering suitable for the CLI.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet returns a flag set that never exits on parse errors.
func NewFlagSet(name string) *FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return &FlagSet{FlagSet: fs}
}

// Help renders the flag defaults as a help block.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	f.FlagSet.SetOutput(&buf)
	f.FlagSet.PrintDefaults()
	f.FlagSet.SetOutput(io.Discard)
	return buf.String()
}
