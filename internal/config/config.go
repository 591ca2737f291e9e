package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	LogLevel   string        `mapstructure:"log_level"`
	Protocol   string        `mapstructure:"protocol"`
	Port       int           `mapstructure:"port"`
	TLS        bool          `mapstructure:"tls"`
	WorkDir    string        `mapstructure:"work_dir"`
	CertPath   string        `mapstructure:"cert_path"`
	KeyPath    string        `mapstructure:"key_path"`
	WSPath     string        `mapstructure:"ws_path"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
	Metrics    bool          `mapstructure:"metrics"`
}

// CertFile is cert_path, or cert/server.crt under work_dir when unset.
func (c *Config) CertFile() string {
	if c.CertPath != "" {
		return c.CertPath
	}
	return filepath.Join(c.WorkDir, "cert", "server.crt")
}

// KeyFile is key_path, or cert/server.key under work_dir when unset.
func (c *Config) KeyFile() string {
	if c.KeyPath != "" {
		return c.KeyPath
	}
	return filepath.Join(c.WorkDir, "cert", "server.key")
}

// Load reads config/config.<CONFIG_ENV>.yaml (env defaults to dev).
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName on top of the defaults. A missing file is not an
// error. RELAY_* environment variables override both.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("relay")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("protocol", "websocket")
	v.SetDefault("port", 8080)
	v.SetDefault("tls", false)
	v.SetDefault("work_dir", ".")
	v.SetDefault("cert_path", "")
	v.SetDefault("key_path", "")
	v.SetDefault("ws_path", "/ws")
	v.SetDefault("static_path", "")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("metrics", true)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Bool("tls", cfg.TLS).Msg("config ready")
	return &cfg, nil
}
