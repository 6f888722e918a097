// Command todoctl is the command line front end for the todo service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhle/todo-service/internal/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(cli.DefaultRegistry)
	os.Exit(dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}
