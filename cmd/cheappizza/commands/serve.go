package commands

import (
	"log/slog"

	"github.com/ZWhitey/CheapPizza/lib/serviceutil"
	"github.com/ZWhitey/CheapPizza/lib/telemetry"
	"github.com/ZWhitey/CheapPizza/services/artifacts"

	"github.com/spf13/cobra"
)

var servePort *int

func init() {
	servePort = serveCmd.Flags().Int("port", 0, "Port to listen on, overrides the config when set.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Serves the generated artifacts over HTTP.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := openStore(cfg)

		port := cfg.Serve.Port
		if *servePort != 0 {
			port = *servePort
		}

		ctx := serviceutil.SignalContext()
		telemetry.InstrumentPerfStats(ctx)

		handler := artifacts.NewHandler(store.Dir(), cfg.Serve.AllowedOrigins)
		slog.Info("serving artifacts", "dir", store.Dir(), "port", port)

		err := serviceutil.StartHttpServer(ctx, port, handler)
		if err != nil {
			serviceutil.Fatal("artifact server failed", err)
		}
	},
}
