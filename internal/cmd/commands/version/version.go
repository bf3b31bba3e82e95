package version

import (
	"github.com/edstack/relay/internal/cmd/base"
	"github.com/edstack/relay/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: relay version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
