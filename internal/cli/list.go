package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nhle/todo-service/internal/query"
)

func init() {
	register(&listCmd{})
}

// listCmd fetches one page of items with the server-side filter, sort, and
// pagination parameters exposed as flags.
type listCmd struct {
	deleted  bool
	done     bool
	open     bool
	priority string
	sortBy   string
	asc      bool
	page     int
	size     int
}

func (c *listCmd) Name() string      { return "list" }
func (c *listCmd) Aliases() []string { return []string{"ls"} }
func (c *listCmd) Synopsis() string  { return "list items" }
func (c *listCmd) Usage() string {
	return "list [--deleted] [--done|--open] [--priority P] [--sort KEY] [--asc] [--page N] [--size N]"
}
func (c *listCmd) NeedsClient() bool { return true }

func (c *listCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.deleted, "deleted", false, "")
	fs.BoolVar(&c.done, "done", false, "")
	fs.BoolVar(&c.open, "open", false, "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.sortBy, "sort", "", "")
	fs.BoolVar(&c.asc, "asc", false, "")
	fs.IntVar(&c.page, "page", query.DefaultPage, "")
	fs.IntVar(&c.size, "size", query.DefaultPageSize, "")
}

func (c *listCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return ExitUserError
	}

	f, err := c.filter()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitUserError
	}

	fetch := env.Client.List
	if c.deleted {
		fetch = env.Client.ListDeleted
	}
	page, err := fetch(ctx, f)
	if err != nil {
		return writeAPIError(errOut, err)
	}

	for _, item := range page.Items {
		FormatItem(out, item)
	}
	if !env.Quiet {
		FormatPageSummary(out, len(page.Items), page.TotalCount, page.Page)
	}
	return ExitSuccess
}

// filter translates the parsed flags into a request filter.
func (c *listCmd) filter() (query.Filter, error) {
	f := query.NewFilter()
	f.Page = c.page
	f.PageSize = c.size

	switch {
	case c.done && c.open:
		return f, fmt.Errorf("--done and --open are mutually exclusive")
	case c.done:
		done := true
		f.Completed = &done
	case c.open:
		open := false
		f.Completed = &open
	}

	if c.priority != "" {
		p, err := parsePriority(c.priority)
		if err != nil {
			return f, err
		}
		f.Priority = &p
	}

	if c.sortBy != "" {
		key := strings.ToLower(strings.TrimSpace(c.sortBy))
		if !query.IsSortKey(key) {
			return f, fmt.Errorf("invalid sort key: %s", c.sortBy)
		}
		f.SortBy = key
	}
	if c.asc {
		f.SortDescending = false
	}
	return f, nil
}
