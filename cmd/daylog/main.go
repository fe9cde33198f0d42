package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	// Zone data for the configured civil timezone on hosts without it
	_ "time/tzdata"

	"github.com/balkashynov/daylog/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	commands.SetVersion(version, commit, date)
	if err := commands.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
