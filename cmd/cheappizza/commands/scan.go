package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ZWhitey/CheapPizza/lib/serviceutil"
	"github.com/ZWhitey/CheapPizza/services/scanner"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan [range...]",
	Short: "Probes coupon code ranges and merges hits into coupons.json.",
	Long: `Probes every code in the given ranges (e.g. "15000-15999" or a
single code like "24999") against the Pizza Hut coupon endpoint, fetches
details for valid hits and merges them into the persisted collection.
With no arguments the ranges from the config are scanned.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		tokens := args
		if len(tokens) == 0 {
			tokens = cfg.Scan.DefaultRanges
		}

		client := createClient(cfg)
		store := openStore(cfg)
		scan := scanner.NewScanner(client, store)

		slog.Info("scanning ranges", "ranges", tokens)

		t1 := time.Now()
		summary, err := scan.Scan(cmd.Context(), tokens)
		t2 := time.Now()
		if err != nil {
			serviceutil.Fatal("scan failed", err)
		}

		slog.Info("scanning time", "seconds", t2.Sub(t1).Seconds())
		printSummary(summary)

		notifier := scanner.NewNotifier(cfg.Notify)
		if notifier.Enabled() && len(summary.NewCoupons) > 0 {
			err := notifier.NotifyNewCoupons(cmd.Context(), summary.NewCoupons)
			if err != nil {
				slog.Warn("failed to send new coupon notification", "err", err)
			}
		}
	},
}

func printSummary(summary scanner.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Probed", "Skipped", "Errors", "New", "Total"})
	t.AppendRow(table.Row{
		summary.Probed,
		summary.SkippedKnown,
		summary.Errors,
		len(summary.NewCoupons),
		summary.Total,
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(summary.NewCoupons) == 0 {
		return
	}

	c := table.NewWriter()
	c.SetOutputMirror(os.Stdout)
	c.AppendHeader(table.Row{"Code", "Title", "Price", "Valid Until"})
	for _, coupon := range summary.NewCoupons {
		c.AppendRow(table.Row{
			coupon.Code,
			coupon.Title,
			fmt.Sprintf("$%d", coupon.DiscountedPrice),
			coupon.ValidUntil,
		})
	}
	c.SetStyle(table.StyleRounded)
	c.Render()
}
