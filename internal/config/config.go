package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type FilesConfig struct {
	RootDir       string `yaml:"root_dir"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	OTPTTLMinutes int    `yaml:"otp_ttl_minutes"`
	TokenTTLDays  int    `yaml:"token_ttl_days"`
	AllowedDomain string `yaml:"allowed_domain"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth  AuthConfig  `yaml:"auth"`
	Files FilesConfig `yaml:"files"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./uploads"
	}
	if cfg.Auth.OTPTTLMinutes <= 0 {
		cfg.Auth.OTPTTLMinutes = 10
	}
	if cfg.Auth.TokenTTLDays <= 0 {
		cfg.Auth.TokenTTLDays = 10
	}
	if cfg.Auth.AllowedDomain == "" {
		cfg.Auth.AllowedDomain = "uniport.edu.ng"
	}
	return &cfg
}

func (a AuthConfig) OTPTTL() time.Duration {
	return time.Duration(a.OTPTTLMinutes) * time.Minute
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLDays) * 24 * time.Hour
}
