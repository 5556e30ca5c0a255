package commands

import (
	"log/slog"
	"os"

	"github.com/ZWhitey/CheapPizza/lib/configutil"
	"github.com/ZWhitey/CheapPizza/lib/couponstore"
	"github.com/ZWhitey/CheapPizza/lib/restyutil"
	"github.com/ZWhitey/CheapPizza/lib/scrapers/pizzahut"
	"github.com/ZWhitey/CheapPizza/lib/serviceutil"
	"github.com/ZWhitey/CheapPizza/services/scanner"

	"dario.cat/mergo"
)

type SiteConfig struct {
	BaseUrl           string  `json:"base_url"`
	UserAgent         string  `json:"user_agent"`
	RequestsPerSecond float64 `json:"requests_per_second"`
}

type OutputConfig struct {
	Dir string `json:"dir"`
}

type ScanConfig struct {
	DefaultRanges           []string `json:"default_ranges"`
	OriginalPriceMultiplier float64  `json:"original_price_multiplier"`
	LargePizzaBaseline      int      `json:"large_pizza_baseline"`
	NineInchMinPurchase     int      `json:"nine_inch_min_purchase"`
}

type MenuConfig struct {
	Categories []pizzahut.Category `json:"categories"`
}

type ServeConfig struct {
	Port           int      `json:"port"`
	AllowedOrigins []string `json:"allowed_origins"`
}

type DebugConfig struct {
	// RestyOutput is a directory raw HTTP traffic gets dumped into,
	// empty disables the capture.
	RestyOutput string `json:"resty_output"`
}

type Config struct {
	Site   SiteConfig            `json:"site"`
	Output OutputConfig          `json:"output"`
	Scan   ScanConfig            `json:"scan"`
	Menu   MenuConfig            `json:"menu"`
	Notify scanner.NotifyOptions `json:"notify"`
	Serve  ServeConfig           `json:"serve"`
	Debug  DebugConfig           `json:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			BaseUrl:           "https://www.pizzahut.com.tw",
			RequestsPerSecond: 2,
		},
		Output: OutputConfig{Dir: "./public"},
		Scan: ScanConfig{
			DefaultRanges:           []string{"15000-15999", "20000-20999", "24000-24999"},
			OriginalPriceMultiplier: 2,
			LargePizzaBaseline:      565,
			NineInchMinPurchase:     199,
		},
		Menu: MenuConfig{
			Categories: []pizzahut.Category{
				{Id: 1, Name: "比薩"},
				{Id: 2, Name: "副食"},
				{Id: 3, Name: "飲料甜點"},
			},
		},
		Serve: ServeConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
	}
}

// loadConfig layers config.json5 over the built-in defaults. The
// scraper targets a public site, so running with no config at all has
// to work.
func loadConfig() Config {
	merged := DefaultConfig()

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if err == nil {
		err = mergo.Merge(&merged, cfg, mergo.WithOverride)
		if err != nil {
			serviceutil.Fatal("failed to merge config", err)
		}
	} else {
		slog.Info("no config.json5 found, using built-in defaults")
	}

	if password := os.Getenv("CHEAPPIZZA_SMTP_PASSWORD"); password != "" {
		merged.Notify.Smtp.Password = password
	}
	return merged
}

func createClient(cfg Config) *pizzahut.Client {
	if cfg.Debug.RestyOutput != "" {
		pizzahut.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(cfg.Debug.RestyOutput))
	}

	client, err := pizzahut.NewClient(pizzahut.ClientOptions{
		BaseUrl:           cfg.Site.BaseUrl,
		UserAgent:         cfg.Site.UserAgent,
		RequestsPerSecond: cfg.Site.RequestsPerSecond,
		Extract: pizzahut.ExtractOptions{
			OriginalPriceMultiplier: cfg.Scan.OriginalPriceMultiplier,
			LargePizzaBaseline:      cfg.Scan.LargePizzaBaseline,
			NineInchMinPurchase:     cfg.Scan.NineInchMinPurchase,
		},
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize site client", err)
	}
	return client
}

func openStore(cfg Config) couponstore.Store {
	store, err := couponstore.NewStore(cfg.Output.Dir)
	if err != nil {
		serviceutil.Fatal("failed to open artifact store", err)
	}
	return store
}
