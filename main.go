package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/YongboStudio/WinToolbox/app"
	"github.com/YongboStudio/WinToolbox/ui"
)

// Route and HOSTS changes need an elevated console on Windows. Everything
// else works for a normal user.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shell := ui.NewShell(app.Options{})
	if err := shell.CLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
