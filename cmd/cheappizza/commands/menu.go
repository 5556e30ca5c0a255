package commands

import (
	"log/slog"
	"time"

	"github.com/ZWhitey/CheapPizza/lib/serviceutil"
	"github.com/ZWhitey/CheapPizza/services/scanner"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(menuCmd)
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Scrapes the menu categories and writes menu.json.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		client := createClient(cfg)
		store := openStore(cfg)
		scan := scanner.NewScanner(client, store)

		t1 := time.Now()
		products, err := scan.ScanMenu(cmd.Context(), cfg.Menu.Categories)
		t2 := time.Now()
		if err != nil {
			serviceutil.Fatal("menu scrape failed", err)
		}

		slog.Info("menu scrape time", "seconds", t2.Sub(t1).Seconds())
		slog.Info("menu written", "products", len(products), "categories", len(cfg.Menu.Categories))
	},
}
