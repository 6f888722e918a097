package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nhle/todo-service/internal/client"
	"github.com/nhle/todo-service/internal/model"
)

// Dispatcher parses the command line and hands off to a registered command.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Run parses args, resolves configuration, and executes the named command.
// With no arguments it runs "list". The returned value is the process exit
// code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name := "list"
	if len(args) > 0 {
		name = args[0]
		args = args[1:]
	}

	// Flags only make sense after a command name.
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return ExitUserError
	}

	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return ExitUserError
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Common flags, available on every command.
	var (
		configPath = fs.String("config", model.DefaultConfigPath(), "")
		serverURL  = fs.String("server", "", "")
		quiet      = fs.Bool("quiet", false, "")
	)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitUserError
	}

	// Anything flag-shaped left over was not a registered flag.
	rest := fs.Args()
	if len(rest) > 0 && strings.HasPrefix(rest[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", rest[0])
		return ExitUserError
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitUserError
	}
	if *serverURL != "" {
		cfg.Client.BaseURL = *serverURL
	}

	env := &Env{Config: cfg, Quiet: *quiet}
	if cmd.NeedsClient() {
		env.Client = client.NewClient(cfg.Client.BaseURL, cfg.Client.Timeout())
	}

	return cmd.Run(ctx, env, rest, out, errOut)
}

// writeAPIError prints an API failure the way a user should see it and maps
// it to an exit code. Rejected input and missing ids are the user's to fix;
// anything else is the backend's.
func writeAPIError(errOut io.Writer, err error) int {
	switch {
	case client.IsNotFound(err):
		fmt.Fprintln(errOut, "error: item not found")
		return ExitUserError
	case client.IsValidation(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitUserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return ExitBackendError
	}
}
