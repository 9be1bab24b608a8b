package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common"
	presaleconfig "github.com/gaze-network/presale/modules/presale/config"
	"github.com/gaze-network/presale/pkg/erc20"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/gaze-network/presale/pkg/middleware/requestcontext"
	"github.com/gaze-network/presale/pkg/middleware/requestlogger"
	"github.com/gaze-network/presale/pkg/middleware/walletauth"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	isInit     bool
	mu         sync.Mutex
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output:  "TEXT",
			Service: "presale",
		},
		Network: common.NetworkLocal,
		Chain: erc20.BackendConfig{
			Confirmations: 1,
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
			WalletAuth: walletauth.Config{
				MaxAge:  walletauth.DefaultMaxAge,
				MaxSkew: walletauth.DefaultMaxSkew,
			},
		},
		Presale: presaleconfig.Default(),
		Export: ExportConfig{
			Dir: "./exports",
		},
	}
)

type Config struct {
	Logger     logger.Config        `mapstructure:"logger"`
	Network    common.Network       `mapstructure:"network"`
	Chain      erc20.BackendConfig  `mapstructure:"chain"`
	HTTPServer HTTPServerConfig     `mapstructure:"http_server"`
	Presale    presaleconfig.Config `mapstructure:"presale"`
	Export     ExportConfig         `mapstructure:"export"`
}

type HTTPServerConfig struct {
	Port       int                               `mapstructure:"port"`
	Logger     requestlogger.Config              `mapstructure:"logger"`
	RequestIP  requestcontext.WithClientIPConfig `mapstructure:"requestip"`
	WalletAuth walletauth.Config                 `mapstructure:"wallet_auth"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ExportConfig is where ledger snapshots are written. S3 is used when S3.Bucket is set.
type ExportConfig struct {
	Dir string   `mapstructure:"dir"`
	S3  S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // for S3 compatible storages, e.g. MinIO or R2
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// Parse parse the configuration from environment variables
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

// Load returns the loaded configuration
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if isInit {
		return *config
	}
	return parse()
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
// Example (where serverCmd is a Cobra instance):
//
//	serverCmd.Flags().Int("port", 1138, "Port to run Application server on")
//	Viper.BindPFlag("port", serverCmd.Flags().Lookup("port"))
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}

// SetDefault sets the default value for this key.
// SetDefault is case-insensitive for a key.
// Default only used when no value is provided by the user via flag, config or ENV.
func SetDefault(key string, value any) { viper.SetDefault(key, value) }

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	configOnce.Do(func() {
		logger.DebugContext(ctx, "Loaded config", slogx.Stringer("network", config.Network))
	})
	return *config
}
