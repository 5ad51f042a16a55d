package commands

import (
	"context"

	"github.com/spf13/cobra"

	"sanartes/internal/cli"
	applog "sanartes/internal/log"
	"sanartes/internal/menu"
)

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}
}

func runMenu(cmd *cobra.Command) error {
	exp, err := appCtx.exporter(cmd.Context())
	if err != nil {
		return err
	}

	parent, cancel := context.WithCancel(cmd.Context())
	ctx, done := cli.GracefulShutdown(parent, appCtx.logger, shutdownTimeout, nil)
	defer func() {
		cancel()
		<-done
	}()

	m := menu.New(cmd.InOrStdin(), cmd.OutOrStdout(), appCtx.registry, exp, appCtx.cfg.ExportPath, appCtx.logger)
	result := make(chan error, 1)
	go func() { result <- m.Run(ctx) }()

	// A blocked read on stdin never sees the cancellation, so a signal
	// ends the session here instead of waiting for Run.
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		appCtx.logger.Info("Menu interrupted", applog.FieldOperation, applog.OpShutdown)
		return nil
	}
}
