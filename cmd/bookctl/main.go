// Command bookctl checks booking times against a running server the same
// way the booking form does.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/interval"
	"github.com/Domenick1991/eventbooking/internal/slotsclient"
	"github.com/spf13/cobra"
)

type options struct {
	server   string
	timeout  time.Duration
	timezone string
	exclude  int64
}

func (o *options) source() *slotsclient.Client {
	return slotsclient.New(o.server, o.timeout)
}

func (o *options) location() (*time.Location, error) {
	return config.AppConfig{Timezone: o.timezone}.Location()
}

func (o *options) date(s string) (time.Time, error) {
	loc, err := o.location()
	if err != nil {
		return time.Time{}, err
	}
	return interval.ParseDate(s, loc)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// a missing config file just means flag defaults
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		cfg = config.Default()
	}
	opts := &options{}

	root := &cobra.Command{
		Use:           "bookctl",
		Short:         "Inspect venue availability and validate booking times",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", cfg.SlotsClient.BaseURL, "Booking server base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.SlotsClient.Timeout(), "Request timeout")
	root.PersistentFlags().StringVar(&opts.timezone, "tz", cfg.App.Timezone, "Venue timezone (empty = local)")
	root.PersistentFlags().Int64Var(&opts.exclude, "exclude", 0, "Booking id to ignore when computing availability")

	root.AddCommand(newSlotsCmd(opts), newOptionsCmd(opts), newCheckCmd(opts))
	return root
}

func newSlotsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "slots DATE",
		Short: "List available windows for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := opts.date(args[0])
			if err != nil {
				return err
			}
			return runSlots(cmd.Context(), cmd.OutOrStdout(), opts.source(), date, opts.exclude)
		},
	}
}

func newOptionsCmd(opts *options) *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "options DATE",
		Short: "Print the selectable start and end times for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := opts.date(args[0])
			if err != nil {
				return err
			}
			startTime, err := interval.ParseTimeOfDay(start)
			if err != nil {
				return err
			}
			return runOptions(cmd.Context(), cmd.OutOrStdout(), opts.source(), date, startTime, opts.exclude)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Start time HH:MM used to pick the window")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	var (
		nextDay      bool
		currentStart string
		currentEnd   string
	)
	cmd := &cobra.Command{
		Use:   "check DATE START END",
		Short: "Validate a start/end selection and print the form values",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := opts.location()
			if err != nil {
				return err
			}
			req, err := parseCheck(args, nextDay, currentStart, currentEnd, loc)
			if err != nil {
				return err
			}
			req.exclude = opts.exclude
			return runCheck(cmd.Context(), cmd.OutOrStdout(), opts.source(), req)
		},
	}
	cmd.Flags().BoolVar(&nextDay, "next-day", false, "End time falls on the following day")
	cmd.Flags().StringVar(&currentStart, "current-start", "", "Current booking start (YYYY-MM-DDTHH:MM) when editing")
	cmd.Flags().StringVar(&currentEnd, "current-end", "", "Current booking end (YYYY-MM-DDTHH:MM) when editing")
	return cmd
}
