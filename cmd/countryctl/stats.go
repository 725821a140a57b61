package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"countries/internal/stats"
)

func (a *app) statsCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics; --watch keeps the counters live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.client.Statistics(ctx)
			if err != nil {
				return err
			}
			dashboard := stats.NewDashboard(a.client, stats.InjectedFrom(s),
				stats.WithNotifier(a.notifier),
				stats.WithLogger(a.log),
				stats.WithOnUpdate(func(c stats.Counters) { printCounters(a.out, c) }),
			)
			printCounters(a.out, dashboard.Counters())
			printBreakdown(a.out, dashboard.Chart())
			if !watch {
				return nil
			}

			poller := stats.NewPoller(dashboard,
				stats.WithInterval(a.cfg.Stats.PollInterval),
				stats.WithPollerLogger(a.log),
			)
			if err := poller.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			poller.Stop()
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh the counters until interrupted")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the per-continent breakdown as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.client.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			dashboard := stats.NewDashboard(a.client, stats.InjectedFrom(s), stats.WithNotifier(a.notifier))
			if out == "-" {
				return dashboard.Export(a.out)
			}
			if out == "" {
				out = stats.Filename(time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := dashboard.Export(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file; "-" writes to stdout (default countries-statistics-<date>.csv)`)
	return cmd
}

func printCounters(w io.Writer, c stats.Counters) {
	fmt.Fprintf(w, "Total countries: %d\nContinents: %d\nData points: %d\n",
		c.TotalCountries, c.Continents, c.DataPoints)
}

func printBreakdown(w io.Writer, chart stats.Chart) {
	if chart.Empty() {
		fmt.Fprintln(w, "No data available")
		return
	}
	for i := range chart.Data {
		fmt.Fprintln(w, chart.Tooltip(i))
	}
}
