package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nhle/todo-service/internal/client"
	"github.com/nhle/todo-service/internal/model"
)

func init() {
	register(&exportCmd{})
}

// exportCmd dumps the whole dataset as JSON. It loads a cache mirror so the
// export pages through both the active and deleted sets rather than capping
// at one page.
type exportCmd struct {
	file string
}

// exportDocument is the JSON shape written by export.
type exportDocument struct {
	ExportedAt time.Time    `json:"exportedAt"`
	Active     []model.Item `json:"active"`
	Deleted    []model.Item `json:"deleted"`
}

func (c *exportCmd) Name() string      { return "export" }
func (c *exportCmd) Aliases() []string { return []string{"dump"} }
func (c *exportCmd) Synopsis() string  { return "export all items as JSON" }
func (c *exportCmd) Usage() string     { return "export [--file PATH]" }
func (c *exportCmd) NeedsClient() bool { return true }

func (c *exportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "file", "", "")
}

func (c *exportCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return ExitUserError
	}

	mirror := client.NewMirror(env.Client, client.MirrorOptions{
		BatchSize: env.Config.Client.PageSize,
	})
	if err := mirror.Load(ctx); err != nil {
		return writeAPIError(errOut, err)
	}

	active, deleted := mirror.Snapshot()
	doc := exportDocument{
		ExportedAt: time.Now().UTC(),
		Active:     active,
		Deleted:    deleted,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintf(errOut, "error: encoding export: %v\n", err)
		return ExitBackendError
	}
	data = append(data, '\n')

	if c.file == "" {
		if _, err := out.Write(data); err != nil {
			fmt.Fprintf(errOut, "error: writing export: %v\n", err)
			return ExitBackendError
		}
		return ExitSuccess
	}

	if err := os.WriteFile(c.file, data, 0o644); err != nil {
		fmt.Fprintf(errOut, "error: writing export: %v\n", err)
		return ExitUserError
	}
	if !env.Quiet {
		fmt.Fprintf(out, "exported %d items to %s\n", len(active)+len(deleted), c.file)
	}
	return ExitSuccess
}
