package config

import (
	"encoding/json"
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Backend  BackendConfig  `json:"backend"`
	Cart     CartConfig     `json:"cart"`
	Tags     TagsConfig     `json:"tags"`
	Redis    RedisConfig    `json:"redis"`
	Database DatabaseConfig `json:"database"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// BackendConfig points at the upstream order/catalog API.
type BackendConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	AuthToken      string `json:"auth_token"`
}

// CartConfig selects the cart store adapter. Store is one of
// "redis", "postgres" or "memory".
type CartConfig struct {
	Store                string `json:"store"`
	SweepIntervalMinutes int    `json:"sweep_interval_minutes"`
	StaleAfterHours      int    `json:"stale_after_hours"`
}

type TagsConfig struct {
	BatchWindowMS   int `json:"batch_window_ms"`
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"dbname"`
	SSLMode        string `json:"sslmode"`
	MigrationsPath string `json:"migrations_path"`
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Cart.Store == "" {
		c.Cart.Store = "redis"
	}
	if c.Cart.SweepIntervalMinutes <= 0 {
		c.Cart.SweepIntervalMinutes = 60
	}
	if c.Cart.StaleAfterHours <= 0 {
		c.Cart.StaleAfterHours = 24 * 30
	}
	if c.Tags.BatchWindowMS <= 0 {
		c.Tags.BatchWindowMS = 10
	}
	if c.Tags.CacheTTLSeconds <= 0 {
		c.Tags.CacheTTLSeconds = 300
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = 30
	}
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
