package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hotelbook/internal/storage"
)

// DefaultPath is used when neither an explicit path nor HOTELCTL_CONFIG is set.
const DefaultPath = "configs/hotelctl.yaml"

type Config struct {
	API struct {
		BaseURL        string  `yaml:"base_url"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RatePerSecond  float64 `yaml:"rate_per_second"`
		Burst          int     `yaml:"burst"`
		Breaker        struct {
			ConsecutiveFailures uint32 `yaml:"consecutive_failures"`
			OpenSeconds         int    `yaml:"open_seconds"`
		} `yaml:"breaker"`
	} `yaml:"api"`

	Session struct {
		Backend    string `yaml:"backend"`
		Path       string `yaml:"path"`
		Passphrase string `yaml:"passphrase"`
		Redis      struct {
			Address  string `yaml:"address"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"session"`

	Payments struct {
		StripePublishableKey string `yaml:"stripe_publishable_key"`
	} `yaml:"payments"`

	UI struct {
		RoomsPerPage      int `yaml:"rooms_per_page"`
		AdminRoomsPerPage int `yaml:"admin_rooms_per_page"`
		BookingsPerPage   int `yaml:"bookings_per_page"`
		ErrorSeconds      int `yaml:"error_seconds"`
		SuccessSeconds    int `yaml:"success_seconds"`
	} `yaml:"ui"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads the YAML config at path. A .env file in the working directory is
// loaded first so its variables can be referenced as ${VAR}. A missing config
// file yields the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("HOTELCTL_CONFIG")
	}
	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Support ${ENV_VAR} placeholders in YAML config.
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080/api"
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = storage.BackendFile
	}
	if v := os.Getenv("HOTELCTL_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	return &cfg, nil
}

func (c *Config) APITimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) BreakerOpenFor() time.Duration {
	if c.API.Breaker.OpenSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.API.Breaker.OpenSeconds) * time.Second
}

// StorageOptions maps the session section onto the storage backend options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:       c.Session.Backend,
		Path:          c.Session.Path,
		RedisAddr:     c.Session.Redis.Address,
		RedisPassword: c.Session.Redis.Password,
		RedisDB:       c.Session.Redis.DB,
		Prefix:        c.Session.Redis.Prefix,
	}
}

func (c *Config) RoomsPerPage() int {
	return orDefault(c.UI.RoomsPerPage, 8)
}

func (c *Config) AdminRoomsPerPage() int {
	return orDefault(c.UI.AdminRoomsPerPage, 5)
}

func (c *Config) BookingsPerPage() int {
	return orDefault(c.UI.BookingsPerPage, 5)
}

func (c *Config) ErrorTTL() time.Duration {
	return time.Duration(orDefault(c.UI.ErrorSeconds, 4)) * time.Second
}

func (c *Config) SuccessTTL() time.Duration {
	return time.Duration(orDefault(c.UI.SuccessSeconds, 8)) * time.Second
}

func (c *Config) PrometheusPort() int {
	return orDefault(c.Monitoring.PrometheusPort, 9090)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
