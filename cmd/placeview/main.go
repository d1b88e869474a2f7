package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	defer a.close()

	if err := newRootCommand(a).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
