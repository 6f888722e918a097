package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func init() {
	register(&rmCmd{})
}

// rmCmd soft-deletes an item. The item stays recoverable via restore until
// someone clears it server-side.
type rmCmd struct{}

func (c *rmCmd) Name() string                    { return "rm" }
func (c *rmCmd) Aliases() []string               { return []string{"delete"} }
func (c *rmCmd) Synopsis() string                { return "soft-delete an item" }
func (c *rmCmd) Usage() string                   { return "rm ID" }
func (c *rmCmd) NeedsClient() bool               { return true }
func (c *rmCmd) RegisterFlags(fs *flag.FlagSet)  {}

func (c *rmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := parseItemID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitUserError
	}

	if err := env.Client.Delete(ctx, id); err != nil {
		return writeAPIError(errOut, err)
	}

	if !env.Quiet {
		fmt.Fprintf(out, "deleted %d\n", id)
	}
	return ExitSuccess
}
