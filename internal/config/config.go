package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	AdminToken string     `yaml:"admin_token" env:"ADMIN_TOKEN" env-required:"true"`
	HTTPServer HTTPServer `yaml:"http_server"`
	DB         DB         `yaml:"db"`
	Cache      Cache      `yaml:"cache"`
	Blob       Blob       `yaml:"blob"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	Addr     string `yaml:"addr" env-required:"true"`
	Port     string `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-required:"true"`
	DB       string `yaml:"db" env-required:"true"`
	SSLMode  string `yaml:"ssl_mode" env-default:"disable"`
}

type Cache struct {
	Addr        string        `yaml:"addr" env-required:"true"`
	Password    string        `yaml:"password" env:"CACHE_PASSWORD"`
	DB          int           `yaml:"db" env-default:"0"`
	DocumentTTL time.Duration `yaml:"document_ttl" env-default:"5m"`
}

type Blob struct {
	Endpoint  string        `yaml:"endpoint" env-required:"true"`
	AccessKey string        `yaml:"access_key" env:"BLOB_ACCESS_KEY" env-required:"true"`
	SecretKey string        `yaml:"secret_key" env:"BLOB_SECRET_KEY" env-required:"true"`
	Bucket    string        `yaml:"bucket" env-default:"documents"`
	UseSSL    bool          `yaml:"use_ssl" env-default:"false"`
	URLTTL    time.Duration `yaml:"url_ttl" env-default:"15m"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
