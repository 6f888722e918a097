package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
)

func init() {
	register(&doneCmd{})
}

// doneCmd toggles an item's completion flag. Running it on a completed item
// reopens it, matching the API's toggle semantics.
type doneCmd struct{}

func (c *doneCmd) Name() string                    { return "done" }
func (c *doneCmd) Aliases() []string               { return []string{"toggle"} }
func (c *doneCmd) Synopsis() string                { return "toggle completion" }
func (c *doneCmd) Usage() string                   { return "done ID" }
func (c *doneCmd) NeedsClient() bool               { return true }
func (c *doneCmd) RegisterFlags(fs *flag.FlagSet)  {}

func (c *doneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := parseItemID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitUserError
	}

	item, err := env.Client.Toggle(ctx, id)
	if err != nil {
		return writeAPIError(errOut, err)
	}

	if !env.Quiet {
		FormatItem(out, *item)
	}
	return ExitSuccess
}
