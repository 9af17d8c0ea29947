package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr                 string        `yaml:"addr"`
	Env                  string        `yaml:"env"`
	DatabasePath         string        `yaml:"database_path"`
	JWTSecret            string        `yaml:"jwt_secret"`
	AdminTokenDuration   time.Duration `yaml:"admin_token_duration"`
	SessionDuration      time.Duration `yaml:"session_duration"`
	DefaultAdminPassword string        `yaml:"default_admin_password"`
	Timezone             string        `yaml:"timezone"`
	RateLimit            RateLimit     `yaml:"rate_limit"`
	DBConnectAttempts    int           `yaml:"db_connect_attempts"`
	DBConnectDelay       time.Duration `yaml:"db_connect_delay"`
}

type RateLimit struct {
	Max    int           `yaml:"max"`
	Window time.Duration `yaml:"window"`
}

// Production reports whether the process runs with production hardening
// (secure cookies).
func (c *Config) Production() bool {
	return c.Env == "production"
}

// LoadConfig builds the configuration from env-backed defaults, then lets an
// optional YAML file override them.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:                 getEnv("KIOSK_ADDR", ":8080"),
		Env:                  getEnv("KIOSK_ENV", "development"),
		DatabasePath:         getEnv("KIOSK_DATABASE_PATH", "kiosk.db"),
		JWTSecret:            getEnv("KIOSK_JWT_SECRET", "kiosk-dev-secret"),
		AdminTokenDuration:   24 * time.Hour,
		SessionDuration:      10 * time.Minute,
		DefaultAdminPassword: getEnv("KIOSK_DEFAULT_ADMIN_PASSWORD", ""),
		Timezone:             getEnv("KIOSK_TIMEZONE", "Asia/Jakarta"),
		RateLimit: RateLimit{
			Max:    getEnvInt("KIOSK_RATE_LIMIT_MAX", 5),
			Window: 10 * time.Minute,
		},
		DBConnectAttempts: 5,
		DBConnectDelay:    2 * time.Second,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}
