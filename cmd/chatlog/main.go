package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"

	"github.com/five82/chatlog/internal/app"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatlog: %v\n", err)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch opts.Type {
	case CommandHelp:
		return 0
	case CommandVersion:
		fmt.Printf("chatlog %s\n", app.Version)
		return 0
	case CommandExport:
		if err := app.Export(ctx, opts.Export, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "chatlog: %v\n", err)
			return 1
		}
		return 0
	default:
		if !term.IsTerminal(os.Stdout.Fd()) {
			fmt.Fprintln(os.Stderr, "chatlog: the viewer needs a terminal; use \"chatlog export\" to write entries to a pipe or file")
			return 1
		}
		if err := app.Run(ctx, opts.View); err != nil {
			fmt.Fprintf(os.Stderr, "chatlog: %v\n", err)
			return 1
		}
		return 0
	}
}
