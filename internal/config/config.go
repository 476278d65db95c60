package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	bondmarketconfig "github.com/thorbond/bond-indexer/modules/bondmarket/config"
	"github.com/thorbond/bond-indexer/pkg/logger"
	"github.com/thorbond/bond-indexer/pkg/logger/slogx"
	"github.com/thorbond/bond-indexer/pkg/middleware/requestlogger"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServer{
			Port: 8080,
		},
		Midgard: UpstreamClient{
			BaseURL: "https://midgard.ninerealms.com",
		},
		Thornode: UpstreamClient{
			BaseURL: "https://thornode.ninerealms.com",
		},
	}
)

type Config struct {
	Logger     logger.Config           `mapstructure:"logger"`
	HTTPServer HTTPServer              `mapstructure:"http_server"`
	Midgard    UpstreamClient          `mapstructure:"midgard"`
	Thornode   UpstreamClient          `mapstructure:"thornode"`
	Wallet     WalletClient            `mapstructure:"wallet"`
	BondMarket bondmarketconfig.Config `mapstructure:"bondmarket"`
}

type HTTPServer struct {
	Port   int                  `mapstructure:"port"`
	Logger requestlogger.Config `mapstructure:"logger"`
}

type UpstreamClient struct {
	BaseURL string `mapstructure:"base_url"`
	Debug   bool   `mapstructure:"debug"`
}

type WalletClient struct {
	BaseURL  string `mapstructure:"base_url"`
	Disabled bool   `mapstructure:"disabled"`
}

// BindPFlag binds a command-line flag to a configuration key.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("failed to bind flag to configuration", slogx.String("key", key), slogx.Error(err))
	}
}

// Parse loads the configuration from the given file (or the default search
// path), environment variables and bound flags.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
		logger.DebugContext(ctx, "loaded config successfully")
	})

	return *config
}

// Load returns the parsed configuration.
func Load() Config {
	return Parse("")
}
