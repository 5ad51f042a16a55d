package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sanartes/internal/amqp"
	"sanartes/internal/cli"
	applog "sanartes/internal/log"
	gsheet "sanartes/internal/sheets/google"
	"sanartes/internal/worker"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Copy archived exports to Google Sheets as AMQP notifications arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd.Context())
		},
	}
}

func runWorker(parent context.Context) error {
	cfg, logger := appCtx.cfg, applog.FromContext(parent).WithComponent(applog.ComponentSheets)
	if cfg.AMQPURL == "" || cfg.GoogleSpreadsheetID == "" {
		return errors.New("worker needs AMQP_URL and GOOGLE_SPREADSHEET_ID")
	}

	repo, err := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	sheetsClient, err := gsheet.New(parent, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return fmt.Errorf("init google sheets: %w", err)
	}

	amqpClient, err := amqp.NewClient(parent, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("init amqp: %w", err)
	}

	base, cancel := context.WithCancel(parent)
	ctx, done := cli.GracefulShutdown(base, logger, shutdownTimeout, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", applog.FieldError, err)
		}
	})

	w := worker.NewSheetsWorker(repo, sheetsClient, cfg.SyncBatchSize, logger)
	logger.Info("Starting sheets worker",
		applog.FieldOperation, applog.OpStartup,
		"queue", cfg.AMQPQueue,
		"sync_interval", cfg.SyncInterval)

	if err := w.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", applog.FieldError, err)
	}

	go func() {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.ProcessPending(ctx); err != nil {
					logger.Error("Periodic sync failed", applog.FieldError, err)
				}
			}
		}
	}()

	err = amqpClient.ConsumeReportExported(ctx, w.HandleReportExported)
	cancel()
	<-done
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
