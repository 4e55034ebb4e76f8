package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"recnorm/common/batch"
	"recnorm/services/processing/internal/config"
	"recnorm/services/processing/internal/processor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	inputPath  string
	domain     string
	datasetArg string
	outputDir  string
	outputFile string
)

var rootCmd = &cobra.Command{
	Use:           "processing",
	Short:         "Normalize product listing and job posting batches",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run [input-path]",
	Short: "Normalize one batch and exit",
	Long: `The run command reads a CSV file or a directory of CSV files, normalizes the
combined batch for the chosen domain, writes the result to the output directory
and loads it into the configured sinks. The run report is printed as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			inputPath = args[0]
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.InputPath == "" {
			return fmt.Errorf("no input path: pass one or set INPUT_PATH")
		}
		return runOnce(cmd.Context(), cfg)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Process batch requests from NATS",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		app := newServeApp(cfg)
		if err := app.Start(cmd.Context()); err != nil {
			return err
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		return app.Stop(context.Background())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <dataset>",
	Short: "Print the cached report of the last run of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.RedisAddr == "" {
			return fmt.Errorf("reports are only kept in redis: set REDIS_ADDR")
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		c := newCache(cfg, false)
		defer c.Close()

		p := processor.NewBatchProcessor(logger, cfg, nil, nil, nil, nil, c, nil)
		summary, err := p.LastRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(summary)
	},
}

// loadConfig reads the environment, applies flags and validates.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if inputPath != "" {
		cfg.InputPath = inputPath
	}
	if flags.Changed("domain") {
		cfg.Domain = domain
	}
	if flags.Changed("dataset") {
		cfg.Dataset = datasetArg
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("output-file") {
		cfg.OutputFile = outputFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runOnce(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	strategies, err := newStrategies(cfg)
	if err != nil {
		return err
	}

	sinks, closeSinks, err := newSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	c := newCache(cfg, false)
	if c != nil {
		defer c.Close()
	}

	p := processor.NewBatchProcessor(logger, cfg,
		newReader(cfg, logger), newWriter(logger),
		newNormalizer(logger, strategies), sinks, c, nil)

	summary, err := p.Process(ctx, batch.NewRequest(cfg.Dataset, cfg.Domain, cfg.InputPath, ""))
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		return err
	}
	return printJSON(summary)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Execute() error {
	rootCmd.AddCommand(runCmd, serveCmd, reportCmd)
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

func init() {
	runCmd.Flags().StringVarP(&domain, "domain", "d", "products", "Batch domain: products or jobs")
	runCmd.Flags().StringVar(&datasetArg, "dataset", "", "Dataset name; defaults to the input file or directory name")
	runCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "data/clean", "Directory the normalized CSV is written to")
	runCmd.Flags().StringVar(&outputFile, "output-file", "", "Output file name; defaults to <dataset>_clean.csv")
}
