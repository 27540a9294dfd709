package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/piplayer/cmd/piplayer"
	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/style"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := piplayer.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, style.RenderError(err))

		// Usage mistakes get the help text, run failures do not
		switch errors.GetErrorCode(err) {
		case errors.ErrNoInput, errors.ErrInvalidInput:
			fmt.Fprintln(os.Stderr)
			rootCmd.SetOut(os.Stderr)
			_ = rootCmd.Usage()
		}

		stop()
		os.Exit(1)
	}
}
