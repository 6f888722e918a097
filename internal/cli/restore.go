package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func init() {
	register(&restoreCmd{})
}

// restoreCmd brings a soft-deleted item back into the active set.
type restoreCmd struct{}

func (c *restoreCmd) Name() string                    { return "restore" }
func (c *restoreCmd) Aliases() []string               { return nil }
func (c *restoreCmd) Synopsis() string                { return "restore a deleted item" }
func (c *restoreCmd) Usage() string                   { return "restore ID" }
func (c *restoreCmd) NeedsClient() bool               { return true }
func (c *restoreCmd) RegisterFlags(fs *flag.FlagSet)  {}

func (c *restoreCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := parseItemID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitUserError
	}

	item, err := env.Client.Restore(ctx, id)
	if err != nil {
		return writeAPIError(errOut, err)
	}

	if !env.Quiet {
		FormatItem(out, *item)
	}
	return ExitSuccess
}
