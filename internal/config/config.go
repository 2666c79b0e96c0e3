package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const defaultPath = "config/config.yaml"

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For header is
		// believed. Empty means the direct peer is always the client.
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`
	Database struct {
		URL         string `yaml:"url"`
		AutoMigrate bool   `yaml:"auto_migrate"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	RateLimit struct {
		Requests      int           `yaml:"requests"`
		WriteRequests int           `yaml:"write_requests"`
		Window        time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Load reads the YAML file named by CONFIG_PATH (config/config.yaml by
// default), then applies environment overrides and defaults. A missing file
// is not an error; a config without a JWT secret or database URL is.
func Load() (Config, error) {
	path := getEnv("CONFIG_PATH", defaultPath)
	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func LoadFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		c.Server.Address = port
	}
	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	if v, ok := os.LookupEnv("DATABASE_AUTO_MIGRATE"); ok {
		c.Database.AutoMigrate, _ = strconv.ParseBool(v)
	}
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = getEnvDuration("JWT_TTL", c.Auth.TokenTTL)
	c.RateLimit.Requests = getEnvInt("RATE_LIMIT_REQUESTS", c.RateLimit.Requests)
	c.RateLimit.WriteRequests = getEnvInt("RATE_LIMIT_WRITE_REQUESTS", c.RateLimit.WriteRequests)
	c.RateLimit.Window = getEnvDuration("RATE_LIMIT_WINDOW", c.RateLimit.Window)
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		c.Server.TrustedProxies = splitList(proxies)
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = splitList(origins)
	}
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":4001"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = 100
	}
	if c.RateLimit.WriteRequests <= 0 {
		c.RateLimit.WriteRequests = 50
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = 15 * time.Minute
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "database.url (DATABASE_URL)")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "auth.jwt_secret (JWT_SECRET)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	if _, err := c.TrustedNetworks(); err != nil {
		return err
	}
	return nil
}

// TrustedNetworks parses server.trusted_proxies. A bare IP is treated as a
// single-host network.
func (c Config) TrustedNetworks() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.Server.TrustedProxies))
	for _, entry := range c.Server.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("config: invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("config: invalid trusted proxy %q: %w", entry, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
