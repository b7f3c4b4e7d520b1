package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/kopimi-kafe/backend/internal/bootstrap"
	"github.com/kopimi-kafe/backend/internal/config"
	"github.com/kopimi-kafe/backend/internal/seed"
	"github.com/kopimi-kafe/backend/internal/store"
)

func main() {
	var op int
	var n int
	var file string

	flag.IntVar(&op, "op", 0, "operation (1: reset to defaults, 2: insert random menu items and reviews, 3: import a menu CSV)")
	flag.IntVar(&n, "n", 5, "number of random records to insert")
	flag.StringVar(&file, "file", "menu.csv", "menu CSV to import (name,description,price,category,image)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	blob, err := bootstrap.OpenBlobStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open blob store", "driver", cfg.Blob.Driver, "error", err)
		os.Exit(1)
	}
	defer blob.Close()

	st := store.New(store.NewBlobBackend(blob, cfg.Blob.Key), store.WithLogger(logger))
	st.Load(ctx)

	switch op {
	case 0:
		logger.Error("no operation given")
		return
	case 1:
		if err := seed.Reset(st, time.Now()); err != nil {
			logger.Error("failed to reset data", "error", err)
			return
		}
		logger.Info("data reset to defaults")
	case 2:
		if n <= 0 {
			logger.Error("n must be positive")
			return
		}
		if err := seed.AddRandom(st, n, time.Now()); err != nil {
			logger.Error("failed to insert random records", "error", err)
			return
		}
		logger.Info("inserted random records", "menuItems", n, "reviews", n)
	case 3:
		added, updated, err := seed.ImportMenuCSV(st, file)
		if err != nil {
			logger.Error("failed to import menu", "file", file, "error", err)
			return
		}
		logger.Info("imported menu", "file", file, "added", added, "updated", updated)
	default:
		logger.Error("unknown operation", "op", op)
		return
	}

	if err := st.Close(ctx); err != nil {
		logger.Error("failed to write data", "error", err)
		os.Exit(1)
	}
}
