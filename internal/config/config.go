package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string        `yaml:"env" env:"ENV" env-default:"local"`
	MediaPath  string        `yaml:"media_path" env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl" env-default:"1h"`
	Secret     string        `yaml:"secret" env:"APP_SECRET"`
	DB         DB            `yaml:"db"`
	HTTPServer HTTPServer    `yaml:"http_server"`
	Retention  Retention     `yaml:"retention"`
}

type DB struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"5432"`
	Username string `yaml:"username" env-default:"postgres"`
	DBName   string `yaml:"dbname" env-default:"camera_vault"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
	Password string `yaml:"-" env:"POSTGRES_PASSWORD"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Retention struct {
	// EmergencyQuotaPercent is the share of the volume reserved for
	// protected recordings; 0, 10 or 20. The storage policy validates it.
	EmergencyQuotaPercent int           `yaml:"emergency_quota_percent" env-default:"10"`
	FullPolicy            string        `yaml:"full_policy" env-default:"deny_new"`
	HardwareTimeout       time.Duration `yaml:"hardware_timeout" env-default:"10s"`
	ScheduleTick          time.Duration `yaml:"schedule_tick" env-default:"1m"`
}

func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		panic("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("config file does not exist: " + path)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}
