package main

import (
	"context"

	"github.com/ZWhitey/CheapPizza/cmd/cheappizza/commands"
	"github.com/ZWhitey/CheapPizza/lib/serviceutil"
	"github.com/ZWhitey/CheapPizza/lib/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	// a missing .env is fine, config.json5 carries the same settings
	godotenv.Load()

	tel, err := telemetry.SetupFromEnv(context.Background(), "cheappizza")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(context.Background())
}
