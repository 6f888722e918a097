package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
)

func init() {
	register(&helpCmd{registry: DefaultRegistry})
}

// helpCmd prints the command table, or the usage of a single command.
type helpCmd struct {
	registry *Registry
}

func (c *helpCmd) Name() string                    { return "help" }
func (c *helpCmd) Aliases() []string               { return nil }
func (c *helpCmd) Synopsis() string                { return "show this help" }
func (c *helpCmd) Usage() string                   { return "help [COMMAND]" }
func (c *helpCmd) NeedsClient() bool               { return false }
func (c *helpCmd) RegisterFlags(fs *flag.FlagSet)  {}

func (c *helpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := c.registry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return ExitUserError
		}
		fmt.Fprintf(out, "usage: todoctl %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
		return ExitSuccess
	}

	fmt.Fprintln(out, "usage: todoctl COMMAND [flags] [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")
	for _, cmd := range c.registry.All() {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += ", " + strings.Join(aliases, ", ")
		}
		fmt.Fprintf(out, "  %-14s %s\n", name, cmd.Synopsis())
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "common flags:")
	fmt.Fprintln(out, "  --config PATH  config file to load")
	fmt.Fprintln(out, "  --server URL   override the API base URL")
	fmt.Fprintln(out, "  --quiet        suppress non-essential output")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "run 'todoctl help COMMAND' for command usage")
	return ExitSuccess
}
