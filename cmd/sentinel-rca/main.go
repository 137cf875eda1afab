package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/sentinelstack/sentinel-rca/internal/api"
	"github.com/sentinelstack/sentinel-rca/internal/config"
	"github.com/sentinelstack/sentinel-rca/internal/engine"
	"github.com/sentinelstack/sentinel-rca/internal/intake"
	"github.com/sentinelstack/sentinel-rca/internal/metrics"
	"github.com/sentinelstack/sentinel-rca/internal/remediation"
	"github.com/sentinelstack/sentinel-rca/internal/repo"
	"github.com/sentinelstack/sentinel-rca/internal/services"
	"github.com/sentinelstack/sentinel-rca/internal/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "sentinel-rca",
		Short:        "Root cause analysis engine for anomalous application logs",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newAnalyzeCmd(&configPath))
	return root
}

// buildService assembles the analyzer, remediation engine and optional
// history store from configuration.
func buildService(cfg *config.Config, logger *slog.Logger, withHistory bool) (*services.AnalysisService, *repo.HistoryStore, error) {
	analyzer, err := engine.NewAnalyzer(logger, engine.Params{
		TimeWindow:          cfg.Analysis.TimeWindow,
		SimilarityThreshold: cfg.Analysis.SimilarityThreshold,
		Weights: engine.ConfidenceWeights{
			Severity:    cfg.Analysis.SeverityWeight,
			CascadeSize: cfg.Analysis.CascadeWeight,
			Tightness:   cfg.Analysis.TightnessWeight,
		},
		TimeWindowMax:     cfg.Analysis.TimeWindowMax,
		CorrelationWindow: cfg.Analysis.CorrelationWindow,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build analyzer: %w", err)
	}

	kb, err := remediation.NewKnowledgeBase(cfg.Remediation.KBPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("load knowledge base: %w", err)
	}
	remEngine := remediation.NewEngine(kb, logger)

	var history *repo.HistoryStore
	if withHistory && cfg.History.Enabled {
		history, err = repo.NewHistoryStore(cfg.History.Path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open history store: %w", err)
		}
	}

	var historyRepo services.HistoryRepo
	if history != nil {
		historyRepo = history
	}
	return services.NewAnalysisService(logger, analyzer, remEngine, historyRepo), history, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
			logger.Info("starting sentinel-rca", slog.String("address", cfg.Server.Address))

			if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			svc, history, err := buildService(cfg, logger, true)
			if err != nil {
				return err
			}
			if history != nil {
				defer history.Close()
			}

			server, err := api.NewServer(cfg.Server, api.NewHandler(svc, logger))
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var metricsServer *http.Server
			if cfg.Server.MetricsAddress != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				metricsServer = &http.Server{
					Addr:         cfg.Server.MetricsAddress,
					Handler:      mux,
					ReadTimeout:  5 * time.Second,
					WriteTimeout: 15 * time.Second,
				}
				go func() {
					logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
					if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server exited", slog.Any("error", err))
						stop()
					}
				}()
			}

			go func() {
				if serveErr := server.Start(); serveErr != nil {
					logger.Error("http server exited", slog.Any("error", serveErr))
					stop()
				}
			}()

			<-ctx.Done()
			logger.Info("shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
			defer cancel()
			server.Shutdown(shutdownCtx)

			if metricsServer != nil {
				metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
				if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Warn("metrics server shutdown", slog.Any("error", err))
				}
				cancelMetrics()
			}

			logger.Info("sentinel-rca stopped")
			return nil
		},
	}
}

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one analysis over a JSON batch file and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)

			var in *os.File
			if inputPath == "" || inputPath == "-" {
				in = os.Stdin
			} else {
				in, err = os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer in.Close()
			}

			batch, err := intake.DecodeBatch(in)
			if err != nil {
				return err
			}

			svc, history, err := buildService(cfg, logger, true)
			if err != nil {
				return err
			}
			if history != nil {
				defer history.Close()
			}

			report, err := svc.Run(cmd.Context(), batch.Records)
			if err != nil {
				return err
			}
			report.SkippedRecords += batch.Skipped

			out := os.Stdout
			if outputPath != "" {
				out, err = os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer out.Close()
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "batch file to analyze (default stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to a file instead of stdout")
	return cmd
}
