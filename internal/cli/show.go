package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/nhle/todo-service/internal/model"
)

func init() {
	register(&showCmd{})
}

// showCmd fetches a single item by id and prints its full detail.
type showCmd struct {
	deleted bool
}

func (c *showCmd) Name() string      { return "show" }
func (c *showCmd) Aliases() []string { return []string{"get"} }
func (c *showCmd) Synopsis() string  { return "show one item" }
func (c *showCmd) Usage() string     { return "show [--deleted] ID" }
func (c *showCmd) NeedsClient() bool { return true }

func (c *showCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.deleted, "deleted", false, "")
}

func (c *showCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := parseItemID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitUserError
	}

	fetch := env.Client.Get
	if c.deleted {
		fetch = env.Client.GetDeleted
	}
	item, err := fetch(ctx, id)
	if err != nil {
		return writeAPIError(errOut, err)
	}

	FormatItem(out, *item)
	if !env.Quiet {
		writeDetail(out, *item)
	}
	return ExitSuccess
}

// writeDetail prints the fields the one-line format leaves out.
func writeDetail(w io.Writer, item model.Item) {
	fmt.Fprintf(w, "     created %s\n", item.CreatedAt.Format(dueDateLayout))
	if item.Description != "" {
		fmt.Fprintf(w, "     %s\n", item.Description)
	}
}
