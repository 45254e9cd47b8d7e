package config

import (
	"flag"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Storage
	DatabaseDriver string `env:"DATABASE_DRIVER"` // postgres | sqlite
	DatabaseDSN    string `env:"DATABASE_URI"`

	// Keys: подпись токенов и шифрование полей записей
	AuthSecret string        `env:"AUTH_SECRET"`
	CipherKey  string        `env:"CIPHER_KEY"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"`

	// HTTP
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	// CLI
	ServerURL string `env:"SERVER_URL"` // полный адрес API, по умолчанию собирается из BaseURL
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool
}

const (
	defaultAuthSecret = "dev-secret-key"
	defaultBaseURL    = "localhost:8081"
	defaultDriver     = "sqlite"
	defaultSQLiteDSN  = "passvault.db"
	defaultTokenTTL   = 24 * time.Hour
)

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]*:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDriver, "db-driver", cfg.DatabaseDriver, "драйвер БД: postgres или sqlite")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.CipherKey, "cipher-key", cfg.CipherKey, "ключ шифрования полей записей")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "время жизни токена")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "включить HTTPS")
	flag.StringVar(&cfg.TLSCertFile, "tls-cert", cfg.TLSCertFile, "путь к сертификату TLS")
	flag.StringVar(&cfg.TLSKeyFile, "tls-key", cfg.TLSKeyFile, "путь к ключу TLS")
	flag.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "адрес API для CLI, например https://host:8081")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "файл с токеном CLI")
	flag.BoolVar(&cfg.Version, "version", false, "показать версию и выйти")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = defaultAuthSecret
	}
	// без отдельного ключа шифрования используем секрет подписи
	if cfg.CipherKey == "" {
		cfg.CipherKey = cfg.AuthSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.DatabaseDriver == "" {
		if cfg.DatabaseDSN != "" {
			cfg.DatabaseDriver = "postgres"
		} else {
			cfg.DatabaseDriver = defaultDriver
		}
	}
	if cfg.DatabaseDriver == defaultDriver && cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = defaultSQLiteDSN
	}
	// BaseURL: "address:port" без схемы и пути, иначе значение по умолчанию
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TLSCertFile == "" {
		cfg.TLSCertFile = "cert.pem"
	}
	if cfg.TLSKeyFile == "" {
		cfg.TLSKeyFile = "key.pem"
	}
	if cfg.ServerURL == "" {
		scheme := "http://"
		if cfg.EnableHTTPS {
			scheme = "https://"
		}
		cfg.ServerURL = scheme + cfg.BaseURL
	}

	return cfg
}
