package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
)

// Version is the todoctl release version, overridable at link time.
var Version = "0.1.0"

func init() {
	register(&versionCmd{})
}

type versionCmd struct{}

func (c *versionCmd) Name() string                    { return "version" }
func (c *versionCmd) Aliases() []string               { return nil }
func (c *versionCmd) Synopsis() string                { return "print the version" }
func (c *versionCmd) Usage() string                   { return "version" }
func (c *versionCmd) NeedsClient() bool               { return false }
func (c *versionCmd) RegisterFlags(fs *flag.FlagSet)  {}

func (c *versionCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "todoctl %s\n", Version)
	return ExitSuccess
}
