package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	ManagementDB struct {
		DSN string `yaml:"dsn"`
	} `yaml:"management_db"`
	UpstreamDB struct {
		DSN string `yaml:"dsn"`
	} `yaml:"upstream_db"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	} `yaml:"auth"`
	Webhook struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"webhook"`
	Orders struct {
		AutoRejectMinutes int `yaml:"auto_reject_minutes"`
	} `yaml:"orders"`
	Earnings struct {
		DefaultCommissionRate float64 `yaml:"default_commission_rate"`
	} `yaml:"earnings"`
	Push struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"push"`
	Worker struct {
		SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	} `yaml:"worker"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Server.Addr == "" {
		return nil, errors.New("server.addr is required")
	}
	if cfg.ManagementDB.DSN == "" {
		return nil, errors.New("management_db.dsn is required")
	}
	if cfg.UpstreamDB.DSN == "" {
		return nil, errors.New("upstream_db.dsn is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Earnings.DefaultCommissionRate < 0 || cfg.Earnings.DefaultCommissionRate > 1 {
		return nil, errors.New("earnings.default_commission_rate must be in [0,1]")
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitCommaList(v)
	}
	if v := os.Getenv("MANAGEMENT_DB_DSN"); v != "" {
		cfg.ManagementDB.DSN = v
	}
	if v := os.Getenv("UPSTREAM_DB_DSN"); v != "" {
		cfg.UpstreamDB.DSN = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("JWT_ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		cfg.Auth.TokenTTLMinutes = atoiOr(cfg.Auth.TokenTTLMinutes, v)
	}
	if v := os.Getenv("WEBHOOK_API_KEY"); v != "" {
		cfg.Webhook.APIKey = v
	}
	if v := os.Getenv("AUTO_REJECT_MINUTES"); v != "" {
		cfg.Orders.AutoRejectMinutes = atoiOr(cfg.Orders.AutoRejectMinutes, v)
	}
	if v := os.Getenv("DEFAULT_COMMISSION_RATE"); v != "" {
		cfg.Earnings.DefaultCommissionRate = atofOr(cfg.Earnings.DefaultCommissionRate, v)
	}
	if v := os.Getenv("EXPO_PUSH_URL"); v != "" {
		cfg.Push.URL = v
	}
	if v := os.Getenv("PUSH_TIMEOUT_SECONDS"); v != "" {
		cfg.Push.TimeoutSeconds = atoiOr(cfg.Push.TimeoutSeconds, v)
	}
	if v := os.Getenv("WORKER_SWEEP_INTERVAL_SECONDS"); v != "" {
		cfg.Worker.SweepIntervalSeconds = atoiOr(cfg.Worker.SweepIntervalSeconds, v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = 1440
	}
	if cfg.Orders.AutoRejectMinutes <= 0 {
		cfg.Orders.AutoRejectMinutes = 10
	}
	if cfg.Earnings.DefaultCommissionRate == 0 {
		cfg.Earnings.DefaultCommissionRate = 0.20
	}
	if cfg.Push.URL == "" {
		cfg.Push.URL = "https://exp.host/--/api/v2/push/send"
	}
	if cfg.Push.TimeoutSeconds <= 0 {
		cfg.Push.TimeoutSeconds = 10
	}
	if cfg.Worker.SweepIntervalSeconds <= 0 {
		cfg.Worker.SweepIntervalSeconds = 60
	}
}

func splitCommaList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func atoiOr(fallback int, v string) int {
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func atofOr(fallback float64, v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
