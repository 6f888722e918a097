package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nhle/todo-service/internal/service"
)

func init() {
	register(&addCmd{})
}

// addCmd creates a new item. The title is the joined positional arguments so
// quoting multi-word titles is optional.
type addCmd struct {
	description string
	due         string
	priority    string
}

func (c *addCmd) Name() string      { return "add" }
func (c *addCmd) Aliases() []string { return []string{"new"} }
func (c *addCmd) Synopsis() string  { return "create an item" }
func (c *addCmd) Usage() string {
	return "add [--desc TEXT] [--due YYYY-MM-DD] [--priority P] TITLE..."
}
func (c *addCmd) NeedsClient() bool { return true }

func (c *addCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
}

func (c *addCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return ExitUserError
	}

	req := service.CreateRequest{
		Title:       title,
		Description: c.description,
	}
	if c.due != "" {
		due, err := parseDueDate(c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return ExitUserError
		}
		req.DueDate = &due
	}
	if c.priority != "" {
		p, err := parsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return ExitUserError
		}
		req.Priority = &p
	}

	item, err := env.Client.Create(ctx, req)
	if err != nil {
		return writeAPIError(errOut, err)
	}

	if env.Quiet {
		fmt.Fprintln(out, item.ID)
		return ExitSuccess
	}
	FormatItem(out, *item)
	return ExitSuccess
}
