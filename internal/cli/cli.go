// Package cli implements the todoctl command line: a small command registry
// and dispatcher over the REST client, one command per API operation plus an
// export that materializes the full dataset through the cache mirror.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/nhle/todo-service/internal/client"
	"github.com/nhle/todo-service/internal/model"
)

// Exit codes returned by Run.
const (
	// ExitSuccess indicates successful completion.
	ExitSuccess = 0

	// ExitUserError indicates a user error: bad arguments, an unknown
	// command, an id that does not exist, or input the server rejected.
	ExitUserError = 1

	// ExitBackendError indicates the API could not be reached or failed.
	ExitBackendError = 2
)

// Env carries the resolved configuration and API client into a command.
type Env struct {
	Config *model.AppConfig
	Client *client.Client
	Quiet  bool
}

// Command is one todoctl subcommand.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage line for help output.
	Usage() string

	// NeedsClient reports whether the dispatcher must build an API client
	// before running the command. help and version run without one.
	NeedsClient() bool

	// RegisterFlags registers command-specific flags. It is called with a
	// fresh FlagSet on every dispatch, which also resets the flag fields
	// to their defaults.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional arguments left after
	// flag parsing and returns an exit code. env.Client is nil when
	// NeedsClient reports false.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// Registry maps command names and aliases to commands.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Command)}
}

// Register adds a command, failing if its name or any alias is taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, name := range names {
		if _, exists := r.cmds[name]; exists {
			return fmt.Errorf("command already registered: %s", name)
		}
	}
	for _, name := range names {
		r.cmds[name] = c
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// All returns every registered command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]Command)
	for _, cmd := range r.cmds {
		seen[cmd.Name()] = cmd
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	cmds := make([]Command, len(names))
	for i, name := range names {
		cmds[i] = seen[name]
	}
	return cmds
}

// DefaultRegistry holds the commands registered at init time.
var DefaultRegistry = NewRegistry()

// register adds a command to the default registry at init time.
func register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
