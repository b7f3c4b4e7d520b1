// Command kafectl edits the shop data from a terminal, either through the
// API or directly in a local SQLite file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kopimi-kafe/backend/internal/blobstore"
	"github.com/kopimi-kafe/backend/internal/bootstrap"
	"github.com/kopimi-kafe/backend/internal/client"
	"github.com/kopimi-kafe/backend/internal/config"
	"github.com/kopimi-kafe/backend/internal/repository"
	"github.com/kopimi-kafe/backend/internal/store"
)

type app struct {
	apiURL    string
	password  string
	localPath string
	debounce  time.Duration
	verbose   bool
	location  *time.Location

	out    io.Writer
	logger *slog.Logger
	client *client.Client
	local  blobstore.Store
	store  *store.Store

	// loadErr is set when the API snapshot could not be read and the store
	// fell back to defaults
	loadErr error
}

// writesAnnotation marks commands that change data.
const writesAnnotation = "kafectl/writes"

func writes(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[writesAnnotation] = "true"
	return cmd
}

func (a *app) remote() bool {
	return a.apiURL != ""
}

// open loads the store the flags point at.
func (a *app) open(ctx context.Context) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	a.location = time.Local

	if a.remote() {
		a.client = client.New(a.apiURL)
		if a.password != "" {
			if err := a.client.Login(ctx, a.password); err != nil {
				return fmt.Errorf("log in: %w", err)
			}
		}
		a.store = store.New(a.client,
			store.WithDebounce(a.debounce),
			store.WithLogger(a.logger),
			store.WithWarningHandler(a.onWarning),
		)
	} else {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if a.location, err = cfg.Location(); err != nil {
			return err
		}
		repo, err := bootstrap.OpenSQL(ctx, cfg, "sqlite", a.localPath, repository.SQLite)
		if err != nil {
			return err
		}
		a.local = repo
		a.store = store.NewLocal(repo, store.WithLogger(a.logger))
	}

	a.store.Load(ctx)
	return nil
}

func (a *app) onWarning(w store.Warning) {
	a.logger.Warn("store warning", "kind", w.Kind, "collection", w.Collection, "error", w.Err)
	if w.Kind == store.KindLoadFailed && a.loadErr == nil {
		a.loadErr = w.Err
	}
}

// checkWritable refuses to change data that was never read. Saving through
// the API replaces the whole snapshot, so writing defaults plus one edit
// would wipe the shop's data.
func (a *app) checkWritable(cmd *cobra.Command) error {
	if cmd.Annotations[writesAnnotation] == "" || a.loadErr == nil {
		return nil
	}
	return fmt.Errorf("could not load data from the API, refusing to change it: %w", a.loadErr)
}

// close writes whatever is still pending and reports a failed write.
func (a *app) close(ctx context.Context) error {
	if a.store == nil {
		return nil
	}

	err := a.store.Close(ctx)
	if err == nil {
		if state, lastErr := a.store.WriteState(); state == store.WriteFailed {
			err = lastErr
		}
	}
	if a.local != nil {
		err = errors.Join(err, a.local.Close())
	}
	return err
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "kafectl",
		Short:         "Manage Kopimi Kafe data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			return a.checkWritable(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api", os.Getenv("KOPIMI_API_URL"), "base URL of the kafe API; empty works on the local file")
	flags.StringVar(&a.password, "password", os.Getenv("KOPIMI_ADMIN_PASSWORD"), "admin password, needed to save through the API")
	flags.StringVar(&a.localPath, "local", "kopimi.db", "SQLite file used when --api is not set")
	flags.DurationVar(&a.debounce, "debounce", store.DefaultDebounce, "delay before changes are written through the API")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log store activity")

	root.AddCommand(
		newStatusCmd(a),
		newSnapshotCmd(a),
		newMenuCmd(a),
		newHoursCmd(a),
	)
	return root
}

func main() {
	ctx := context.Background()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
