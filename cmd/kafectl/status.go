package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/kopimi-kafe/backend/internal/hours"
	"github.com/kopimi-kafe/backend/internal/store"
)

func newStatusCmd(a *app) *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the shop is open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			if !watch {
				status, ok, err := a.status(cmd.Context())
				if err != nil {
					return err
				}
				printStatus(a, status, ok)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watchStatus(ctx, interval)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep printing the status when it changes")
	cmd.Flags().DurationVar(&interval, "interval", hours.DefaultInterval, "how often to re-evaluate with --watch")
	return cmd
}

// status asks the API when there is one, so the answer uses the shop's own
// timezone, and evaluates the local settings otherwise.
func (a *app) status(ctx context.Context) (hours.Status, bool, error) {
	if a.remote() {
		return a.client.Status(ctx)
	}

	h := store.Get(a.store, store.Settings).OperatingHours
	if h == nil {
		return hours.Status{}, false, nil
	}
	return hours.Evaluate(*h, time.Now().In(a.location)), true, nil
}

func (a *app) watchStatus(ctx context.Context, interval time.Duration) error {
	var last string

	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		status, ok, err := a.status(ctx)
		if err != nil {
			a.logger.Warn("failed to read status", "error", err)
		} else if key := fmt.Sprint(status.IsOpen, status.Message, ok); key != last {
			last = key
			printStatus(a, status, ok)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

func printStatus(a *app, status hours.Status, ok bool) {
	switch {
	case !ok:
		fmt.Fprintln(a.out, "no operating hours configured")
	case status.IsOpen:
		fmt.Fprintf(a.out, "OPEN    %s\n", status.Message)
	default:
		fmt.Fprintf(a.out, "CLOSED  %s\n", status.Message)
	}
}
