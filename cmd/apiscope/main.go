package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.followtheprocess.codes/apiscope/internal/apiscope"
	"go.followtheprocess.codes/apiscope/internal/cmd"
	"go.followtheprocess.codes/msg"
)

func main() {
	if err := run(); err != nil {
		// Failed calls have already been reported in full
		if !errors.Is(err, apiscope.ErrCallFailed) {
			msg.Ferror(os.Stderr, "%v", err)
		}

		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli, err := cmd.Build()
	if err != nil {
		return err
	}

	return cli.Execute(ctx)
}
