// Package config loads client settings from defaults, a .env file, the
// environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// DODGE_SERVER_URL.
const EnvPrefix = "DODGE"

type Config struct {
	ServerURL      string        `mapstructure:"server_url" validate:"required,url"`
	APIBase        string        `mapstructure:"api_base" validate:"required,url"`
	Transport      string        `mapstructure:"transport" validate:"oneof=ws http"`
	PollPath       string        `mapstructure:"poll_path"`
	Format         string        `mapstructure:"format" validate:"oneof=auto json legacy"`
	SendInterval   time.Duration `mapstructure:"send_interval" validate:"gt=0"`
	SendRetries    int           `mapstructure:"send_retries" validate:"gte=0"`
	ReferenceWidth float64       `mapstructure:"reference_width" validate:"gt=0"`
	WheelScale     float64       `mapstructure:"wheel_scale"`
	AssetDir       string        `mapstructure:"asset_dir"`
	Token          string        `mapstructure:"token"`
	LogFile        string        `mapstructure:"log_file" validate:"required"`
	Username       string        `mapstructure:"username" validate:"max=64"`
	WindowWidth    int           `mapstructure:"window_width" validate:"gte=320"`
	WindowHeight   int           `mapstructure:"window_height" validate:"gte=240"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_url", "ws://127.0.0.1:7878/")
	v.SetDefault("api_base", "http://127.0.0.1:7878")
	v.SetDefault("transport", "ws")
	v.SetDefault("poll_path", "/")
	v.SetDefault("format", "auto")
	v.SetDefault("send_interval", 30*time.Millisecond)
	v.SetDefault("send_retries", 0)
	v.SetDefault("reference_width", 1920.0)
	v.SetDefault("wheel_scale", 100.0)
	v.SetDefault("asset_dir", "")
	v.SetDefault("token", "")
	v.SetDefault("log_file", ConfigPath("client.log"))
	v.SetDefault("username", "")
	v.SetDefault("window_width", 1280)
	v.SetDefault("window_height", 720)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration. A .env file in the working directory is
// applied first if present. path names a YAML file; when empty,
// config.yaml in the profile directory is used if it exists.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path == "" {
		if p := ConfigPath("config.yaml"); fileExists(p) {
			path = p
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	if c.Transport == "ws" && !strings.HasPrefix(c.ServerURL, "ws") {
		return fmt.Errorf("config: ServerURL %q is not a ws:// or wss:// URL", c.ServerURL)
	}
	if c.AssetDir != "" {
		if st, err := os.Stat(c.AssetDir); err != nil || !st.IsDir() {
			return fmt.Errorf("config: AssetDir %q is not a directory", c.AssetDir)
		}
	}
	return nil
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// LogDir returns the directory holding the log file.
func (c *Config) LogDir() string { return filepath.Dir(c.LogFile) }
