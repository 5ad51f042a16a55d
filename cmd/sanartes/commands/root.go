package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sanartes/internal/backend"
	"sanartes/internal/cli"
	"sanartes/internal/config"
	"sanartes/internal/core"
	applog "sanartes/internal/log"
	"sanartes/internal/metrics"
	"sanartes/internal/seed"
	"sanartes/internal/services"
	"sanartes/internal/sink"
)

const shutdownTimeout = 10 * time.Second

// app holds what the subcommands share. Sinks are opened lazily because
// only the export paths need them.
type app struct {
	cfg       *config.Config
	logger    *applog.Logger
	metrics   *metrics.Metrics
	registry  *services.RegistryService
	publisher *sink.Publisher
}

var appCtx *app

func Execute() error {
	root := newRootCmd()
	err := root.ExecuteContext(context.Background())
	if cerr := appCtx.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sanartes",
		Short:         "Public health therapy project registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.LoadEnvFile()
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			logger := cli.SetupLogger(cfg.LogLevel)
			cmd.SetContext(applog.WithContext(cmd.Context(), logger))

			reg := core.NewRegistry()
			if cfg.SeedDemo {
				reg = seed.Demo()
			}
			m := metrics.New()
			appCtx = &app{
				cfg:      cfg,
				logger:   logger,
				metrics:  m,
				registry: services.NewRegistryService(reg, m, logger),
			}
			logger.Debug("Configuration loaded",
				applog.FieldOperation, applog.OpStartup,
				"sinks", cfg.ReportSinks,
				applog.FieldProjects, len(reg.Projects()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}

	root.AddCommand(menuCmd(), reportCmd(), exportCmd(), statsCmd(), historyCmd(), workerCmd())
	return root
}

// exporter opens the configured sinks on first use.
func (a *app) exporter(ctx context.Context) (*services.ExportService, error) {
	if a.publisher == nil {
		bcfg, err := backend.FromAppConfig(a.cfg)
		if err != nil {
			return nil, err
		}
		sinks := backend.NewFactory(a.logger, bcfg).CreateAll(ctx)
		a.publisher = sink.NewPublisher(sink.PublisherConfig{
			Concurrency: a.cfg.SinkConcurrency,
			Timeout:     a.cfg.SinkTimeout,
			Logger:      a.logger,
			Metrics:     a.metrics,
		}, sinks...)
	}
	return services.NewExportService(a.registry, a.publisher, a.metrics, a.cfg.MetricsTextfile, a.logger), nil
}

func (a *app) close() error {
	if a == nil {
		return nil
	}
	// Menu sessions and the query commands never reach the export path,
	// so their counters are flushed here.
	if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
		a.logger.Warn("Failed to write metrics textfile",
			applog.FieldPath, a.cfg.MetricsTextfile,
			applog.FieldError, err)
	}
	if a.publisher == nil {
		return nil
	}
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("Failed to close report sinks",
			applog.FieldOperation, applog.OpShutdown,
			applog.FieldError, err)
		return err
	}
	return nil
}
