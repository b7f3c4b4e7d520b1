package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/hours"
	"github.com/kopimi-kafe/backend/internal/store"
)

func newHoursCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Show or change operating hours",
	}
	cmd.AddCommand(newHoursShowCmd(a), writes(newHoursSetCmd(a)))
	return cmd
}

func newHoursShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the weekly schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := store.Get(a.store, store.Settings).OperatingHours
			if h == nil {
				fmt.Fprintln(a.out, "no operating hours configured")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, w := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
				d := h.Day(w)
				if !d.IsOpen {
					fmt.Fprintf(tw, "%s\tclosed\n", w)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s - %s\n", w, d.Open, d.Close)
			}
			return tw.Flush()
		},
	}
}

// parseDayHours reads "OPEN CLOSE" or "closed".
func parseDayHours(args []string) (domain.DayHours, error) {
	if len(args) == 1 {
		if !strings.EqualFold(args[0], "closed") {
			return domain.DayHours{}, fmt.Errorf("want OPEN CLOSE or closed, got %q", args[0])
		}
		return domain.DayHours{IsOpen: false}, nil
	}

	for _, clock := range args {
		if err := hours.ValidateClock(clock); err != nil {
			return domain.DayHours{}, err
		}
	}
	return domain.DayHours{IsOpen: true, Open: args[0], Close: args[1]}, nil
}

func newHoursSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set DAY (OPEN CLOSE | closed)",
		Short: "Set one day's hours, a close before the open runs past midnight",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekday, err := domain.ParseWeekday(args[0])
			if err != nil {
				return err
			}
			day, err := parseDayHours(args[1:])
			if err != nil {
				return err
			}

			store.Update(a.store, store.Settings, func(s domain.ShopSettings) domain.ShopSettings {
				if s.OperatingHours == nil {
					h := domain.DefaultOperatingHours()
					s.OperatingHours = &h
				}
				s.OperatingHours.SetDay(weekday, day)
				return s
			})
			fmt.Fprintf(a.out, "%s updated\n", weekday)
			return nil
		},
	}
}
