package config

import (
	"flag"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DefaultDatabaseDSN — файл SQLite, если DATABASE_URI не задан.
const DefaultDatabaseDSN = "vitoria.db"

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	PublicURL   string `env:"PUBLIC_URL"`
	CORSOrigins string `env:"CORS_ORIGINS"`
	CheckInTZ   string `env:"CHECKIN_TZ"`

	// Mercado Pago
	MPAccessToken   string `env:"MP_ACCESS_TOKEN"`
	MPWebhookSecret string `env:"MP_WEBHOOK_SECRET"`

	// IP/CIDR прокси, которым разрешено задавать X-Forwarded-For
	TrustedProxies string `env:"TRUSTED_PROXIES"`

	// /metrics
	MetricsUser string `env:"METRICS_USER"`
	MetricsPass string `env:"METRICS_PASS"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres:// или путь к файлу SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "внешний адрес сервера для back_urls и уведомлений шлюза")
	flag.StringVar(&cfg.CORSOrigins, "cors", cfg.CORSOrigins, "разрешённые origin через запятую")
	flag.StringVar(&cfg.TrustedProxies, "trusted-proxies", cfg.TrustedProxies, "IP/CIDR доверенных прокси через запятую")
	flag.StringVar(&cfg.CheckInTZ, "tz", cfg.CheckInTZ, "часовой пояс календарного дня отметки")
	flag.StringVar(&cfg.MPAccessToken, "mp-token", cfg.MPAccessToken, "access token Mercado Pago")
	flag.StringVar(&cfg.MPWebhookSecret, "mp-webhook-secret", cfg.MPWebhookSecret, "секрет подписи уведомлений Mercado Pago")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the server in host:port form")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = DefaultDatabaseDSN
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	// BaseURL только в виде "address:port" (без схемы и пути), иначе дефолт
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if cfg.PublicURL == "" {
		cfg.PublicURL = cfg.ServerURL
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "http://localhost:3000"
	}
	if cfg.CheckInTZ == "" {
		cfg.CheckInTZ = "UTC"
	}
}

// AllowedOrigins разбирает CORSOrigins.
func (cfg *Config) AllowedOrigins() []string {
	return splitList(cfg.CORSOrigins)
}

// TrustedProxyList разбирает TrustedProxies; пустой список означает, что X-Forwarded-For игнорируется.
func (cfg *Config) TrustedProxyList() []string {
	return splitList(cfg.TrustedProxies)
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
