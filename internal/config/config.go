package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
		// PublicURL is the externally visible base URL, used when rewriting
		// event image references to local paths.
		PublicURL string `yaml:"public_url"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Images struct {
		UploadDir     string `yaml:"upload_dir"`      // originals live under {upload_dir}/images
		CacheDir      string `yaml:"cache_dir"`       // resized variants, keyed by width
		FetchTimeout  int    `yaml:"fetch_timeout"`   // seconds, whole remote fetch
		MaxFetchBytes int64  `yaml:"max_fetch_bytes"` // remote image size cap
		JPEGQuality   int    `yaml:"jpeg_quality"`
		QueueSize     int    `yaml:"queue_size"` // background ingestion queue
		Workers       int    `yaml:"workers"`
	} `yaml:"images"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email"`
		AdminPassword string `yaml:"admin_password"`
		LangDir       string `yaml:"lang_dir"`
	} `yaml:"seed"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Environment mode (tests, containers): everything comes from env vars.
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Server.PublicURL = os.Getenv("PUBLIC_URL")
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Images.UploadDir == "" {
		cfg.Images.UploadDir = "./public/uploads"
	}
	if cfg.Images.CacheDir == "" {
		cfg.Images.CacheDir = "./storage/image-cache"
	}
	if cfg.Images.FetchTimeout == 0 {
		cfg.Images.FetchTimeout = 10
	}
	if cfg.Images.MaxFetchBytes == 0 {
		cfg.Images.MaxFetchBytes = 5 * 1024 * 1024
	}
	if cfg.Images.JPEGQuality == 0 {
		cfg.Images.JPEGQuality = 85
	}
	if cfg.Images.QueueSize == 0 {
		cfg.Images.QueueSize = 256
	}
	if cfg.Images.Workers == 0 {
		cfg.Images.Workers = 2
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:8000"}
	}
	if cfg.Seed.AdminEmail == "" {
		cfg.Seed.AdminEmail = "admin@example.com"
	}
	if cfg.Seed.AdminPassword == "" {
		cfg.Seed.AdminPassword = "password"
	}
	if cfg.Seed.LangDir == "" {
		cfg.Seed.LangDir = "resources/lang"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
