package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/levpartflip/cmd/batch"
	"fjacquet/levpartflip/cmd/root"
	"fjacquet/levpartflip/cmd/run"
	"fjacquet/levpartflip/cmd/schedules"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(run.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(schedules.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
