package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"unichain/config"
	"unichain/core"
	"unichain/core/genesis"
	"unichain/core/state"
	"unichain/core/types"
	"unichain/observability/logging"
	"unichain/observability/otel"
	"unichain/storage"
)

const serviceName = "unichain-replay"

type options struct {
	genesisPath string
	blocksPath  string
	dryRun      bool
}

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	genesisFlag := flag.String("genesis", "", "Path to a YAML genesis file (overrides config GenesisFile)")
	blocksFlag := flag.String("blocks", "", "Path to the JSON block file to replay")
	dryRun := flag.Bool("dry-run", false, "Apply the blocks and report roots without committing")
	flag.Parse()

	if strings.TrimSpace(*blocksFlag) == "" {
		fmt.Fprintln(os.Stderr, "-blocks is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.Setup(serviceName, cfg.Environment, cfg.LoggingOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Init(ctx, cfg.TelemetryConfig(serviceName))
	if err != nil {
		logger.Error("Failed to initialise telemetry", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", slog.Any("error", err))
		}
	}()

	opts := options{
		genesisPath: *genesisFlag,
		blocksPath:  *blocksFlag,
		dryRun:      *dryRun,
	}
	if err := run(ctx, cfg, opts, logger, os.Stdout); err != nil {
		logger.Error("replay failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// blockReport is written as one JSON line per applied block.
type blockReport struct {
	Height    int            `json:"height"`
	Timestamp int64          `json:"timestamp"`
	StateRoot string         `json:"stateRoot"`
	Committed bool           `json:"committed"`
	Results   []resultReport `json:"results"`
	Events    []types.Event  `json:"events,omitempty"`
}

type resultReport struct {
	Status  string `json:"status"`
	Fee     int64  `json:"fee"`
	Message string `json:"message,omitempty"`
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger, out io.Writer) error {
	blocks, err := loadBlockFile(opts.blocksPath)
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DBBackend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := ensureGenesis(cfg, opts, db, logger); err != nil {
		return err
	}

	processor, err := core.NewStateProcessor(state.NewManager(db), cfg.ActuatorConfig(), core.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("replay starting",
		slog.String("backend", cfg.DBBackend),
		slog.Int("blocks", len(blocks.Blocks)),
		slog.String("root", processor.CurrentRoot().Hex()))

	enc := json.NewEncoder(out)
	for height, block := range blocks.Blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		contracts, err := block.contracts(cfg.Execution.AddressPrefix)
		if err != nil {
			return fmt.Errorf("block %d: %w", height, err)
		}
		applied, err := processor.ApplyBlock(ctx, block.Timestamp, contracts)
		if err != nil {
			processor.Discard()
			return fmt.Errorf("block %d: %w", height, err)
		}
		report := blockReport{
			Height:    height,
			Timestamp: block.Timestamp,
			Committed: !opts.dryRun,
			Events:    applied.Events,
		}
		for _, res := range applied.Results {
			report.Results = append(report.Results, resultReport{
				Status:  res.Status.String(),
				Fee:     res.Fee,
				Message: res.Message,
			})
		}
		if opts.dryRun {
			root, err := processor.PendingRoot()
			if err != nil {
				return err
			}
			report.StateRoot = root.Hex()
		} else {
			root, err := processor.Commit()
			if err != nil {
				return fmt.Errorf("block %d: commit: %w", height, err)
			}
			report.StateRoot = root.Hex()
		}
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	if opts.dryRun {
		processor.Discard()
	}
	return nil
}

// ensureGenesis initialises an empty database from the genesis file.
func ensureGenesis(cfg *config.Config, opts options, db storage.Database, logger *slog.Logger) error {
	initialised, err := state.NewManager(db).HasDynamicProperties()
	if err != nil {
		return err
	}
	if initialised {
		return nil
	}
	path := strings.TrimSpace(opts.genesisPath)
	if path == "" {
		path = strings.TrimSpace(cfg.GenesisFile)
	}
	if path == "" {
		return fmt.Errorf("database is empty and no genesis file was provided")
	}
	spec, err := genesis.LoadGenesisSpec(path, cfg.Execution.AddressPrefix)
	if err != nil {
		return err
	}
	root, err := genesis.BuildGenesisFromSpec(spec, db)
	if err != nil {
		return err
	}
	logger.Info("genesis applied",
		slog.String("path", path),
		slog.Int("accounts", len(spec.Accounts)),
		slog.String("root", root.Hex()))
	return nil
}
