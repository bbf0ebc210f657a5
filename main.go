package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tournevent/rates/internal/rates"
	"github.com/tournevent/rates/internal/server"
	"github.com/tournevent/rates/pkg/shipper"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "rates",
	Short:   "Tournevent Rates - Shipping rate computation service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute shipping rates between two postal codes",
	RunE:  runQuote,
}

var postalCodeCmd = &cobra.Command{
	Use:   "postal-code <code>",
	Short: "Resolve a postal code to an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostalCode,
}

var quoteFlags struct {
	from, to                      string
	weight, length, height, width float64
}

func init() {
	quoteCmd.Flags().StringVar(&quoteFlags.from, "from", "", "origin postal code")
	quoteCmd.Flags().StringVar(&quoteFlags.to, "to", "", "destination postal code")
	quoteCmd.Flags().Float64Var(&quoteFlags.weight, "weight", shipper.DefaultWeightGrams, "package weight in grams")
	quoteCmd.Flags().Float64Var(&quoteFlags.length, "length", shipper.DefaultLengthCm, "package length in cm")
	quoteCmd.Flags().Float64Var(&quoteFlags.height, "height", shipper.DefaultHeightCm, "package height in cm")
	quoteCmd.Flags().Float64Var(&quoteFlags.width, "width", shipper.DefaultWidthCm, "package width in cm")
	_ = quoteCmd.MarkFlagRequired("from")
	_ = quoteCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(serveCmd, quoteCmd, postalCodeCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	}
	defer tracerShutdown(context.Background())

	svc, cleanup, err := initRateService(ctx, cfg, logger, tracer, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Starting Tournevent Rates",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.String("provider", cfg.RateProvider),
	)

	// Start HTTP server
	srv := server.New(server.Config{Port: cfg.Port}, svc, logger, prometheus.DefaultGatherer)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// oneShot wires a rate service for a single CLI invocation. Logs go to
// stderr so that stdout carries only the JSON result.
func oneShot(ctx context.Context) (*rates.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := initLogger(cfg, "stderr")
	if err != nil {
		return nil, nil, err
	}

	cfg.OTELEnabled = false
	tracer, _, _ := initTracer(ctx, cfg)

	svc, cleanup, err := initRateService(ctx, cfg, logger, tracer, prometheus.NewRegistry())
	if err != nil {
		return nil, nil, err
	}
	return svc, func() {
		cleanup()
		_ = logger.Sync()
	}, nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, cleanup, err := oneShot(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := svc.CalculateRates(ctx, rates.Request{
		OriginCode:      quoteFlags.from,
		DestinationCode: quoteFlags.to,
		Package: shipper.PackageSpec{
			WeightGrams: quoteFlags.weight,
			LengthCm:    quoteFlags.length,
			HeightCm:    quoteFlags.height,
			WidthCm:     quoteFlags.width,
		},
	})
	if err != nil {
		return fmt.Errorf("calculating rates: %w", err)
	}
	return printJSON(cmd, result)
}

func runPostalCode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, cleanup, err := oneShot(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	addr, err := svc.ResolvePostalCode(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolving postal code: %w", err)
	}
	return printJSON(cmd, addr)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
