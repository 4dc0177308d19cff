package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"despesas/internal/amqp"
	"despesas/internal/config"
	"despesas/internal/hierarchy"
	applog "despesas/internal/log"
	"despesas/internal/services"
	"despesas/internal/storage"
	"despesas/internal/workbook"
	gsheet "despesas/internal/workbook/google"
	"despesas/internal/workbook/xlsx"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     parseLevel(cfg.LogLevel),
		Component: "despesas",
	})
	applog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	os.Exit(run(ctx, cfg, logger, os.Args[1:]))
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger, args []string) int {
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		return 1
	}

	mapping := hierarchy.DefaultMapping()
	if cfg.MappingFile != "" {
		m, err := hierarchy.LoadMapping(cfg.MappingFile)
		if err != nil {
			logger.Error("Failed to load consolidation mapping", "error", err, "path", cfg.MappingFile)
			return 1
		}
		mapping = m
		logger.Info("Loaded consolidation mapping", "path", cfg.MappingFile, "rules", m.Len())
	}

	opts := []services.Option{services.WithSourceBucket(cfg.SourceBucket)}

	if cfg.SQLiteDBPath != "" {
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			return 1
		}
		defer repo.Close()
		opts = append(opts, services.WithStore(repo))
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer client.Close()
			opts = append(opts, services.WithAMQP(client))
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewExtractionService(hierarchy.NewConsolidator(mapping), opts...)

	sources, err := openSources(ctx, cfg, args)
	if err != nil {
		logger.Error("Failed to open workbook source", "error", err, "source", cfg.WorkbookSource)
		return 1
	}
	if len(sources) == 0 {
		logger.Error("No workbooks given", "usage", "despesas <workbook.xlsx> [more.xlsx ...]")
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	exitCode := 0
	for _, src := range sources {
		result, err := svc.Extract(ctx, src)
		if err != nil {
			logger.Error("Extraction failed", "workbook", src.Name(), "error", err)
			exitCode = 1
			src.Close()
			continue
		}
		logger.Info("Workbook processed", "workbook", result.Workbook, "years", result.Years())
		if err := enc.Encode(result.Records); err != nil {
			logger.Error("Failed to encode result", "error", err)
			exitCode = 1
		}
		src.Close()
	}
	return exitCode
}

func openSources(ctx context.Context, cfg *config.Config, args []string) ([]workbook.Source, error) {
	switch cfg.WorkbookSource {
	case "sheets":
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		return []workbook.Source{cli}, nil
	case "xlsx":
		var sources []workbook.Source
		for _, path := range args {
			f, err := xlsx.Open(path)
			if err != nil {
				for _, s := range sources {
					s.Close()
				}
				return nil, err
			}
			sources = append(sources, f)
		}
		return sources, nil
	default:
		return nil, fmt.Errorf("workbook source %q has no CLI input", cfg.WorkbookSource)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
