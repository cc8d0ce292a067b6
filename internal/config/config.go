package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	Webhook        Webhook        `mapstructure:",squash"`
	AccountRefresh AccountRefresh `mapstructure:",squash"`
	Metrics        Metrics        `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Auth habilita o bearer JWT nas rotas /v1 quando Secret não está vazio
type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Webhook struct {
	ActivateCompaniesURL string        `mapstructure:"activate_companies_webhook_url"`
	Timeout              time.Duration `mapstructure:"webhook_timeout"`
	Relays               []string      `mapstructure:"webhook_relays"`
	VerifyDirect         bool          `mapstructure:"webhook_verify_direct"`
	RateLimit            float64       `mapstructure:"webhook_rate_limit"`
	RateBurst            int           `mapstructure:"webhook_rate_burst"`
}

type AccountRefresh struct {
	CronSchedule string `mapstructure:"account_refresh_cron"`
	Enabled      bool   `mapstructure:"account_refresh_enabled"`
}

type Metrics struct {
	Namespace string `mapstructure:"metrics_namespace"`
}

// Relay é um proxy público configurado em WEBHOOK_RELAYS no formato nome=template
type Relay struct {
	Name     string
	Template string
}

const DefaultRelays = "corsproxy=https://corsproxy.io/?{url}," +
	"allorigins=https://api.allorigins.win/raw?url={url}," +
	"cors-anywhere=https://cors-anywhere.herokuapp.com/{url}"

func SetDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "3001")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "localhost:5432/icp?sslmode=disable")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")

	v.SetDefault("AUTH_SECRET", "")

	v.SetDefault("ACTIVATE_COMPANIES_WEBHOOK_URL", "http://localhost:5678/webhook/activate-companies")
	v.SetDefault("WEBHOOK_TIMEOUT", "30s")
	v.SetDefault("WEBHOOK_RELAYS", DefaultRelays)
	v.SetDefault("WEBHOOK_VERIFY_DIRECT", false)
	v.SetDefault("WEBHOOK_RATE_LIMIT", 5) // requisições por segundo por host
	v.SetDefault("WEBHOOK_RATE_BURST", 10)

	v.SetDefault("ACCOUNT_REFRESH_CRON", "*/30 * * * *") // A cada 30 minutos
	v.SetDefault("ACCOUNT_REFRESH_ENABLED", false)

	v.SetDefault("METRICS_NAMESPACE", "icp")

	v.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	v := viper.GetViper()
	SetDefaults(v)

	v.SetConfigType("env")
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	return Load(v)
}

// Load decodifica a configuração a partir de uma instância do viper com defaults aplicados
func Load(v *viper.Viper) (*Config, error) {
	config := &Config{}

	err := v.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("erro ao decodificar configuração: %w", err)
	}

	config.Server.AllowedOrigins = trimAll(config.Server.AllowedOrigins)
	config.Webhook.Relays = trimAll(config.Webhook.Relays)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// ParsedRelays converte WEBHOOK_RELAYS na lista ordenada de relays.
// Entradas sem nome recebem relay-<posição>.
func (w Webhook) ParsedRelays() ([]Relay, error) {
	relays := make([]Relay, 0, len(w.Relays))
	for i, entry := range w.Relays {
		name, template, found := strings.Cut(entry, "=")
		if !found || strings.ContainsAny(name, ":/?") {
			name, template = fmt.Sprintf("relay-%d", i+1), entry
		}

		name = strings.TrimSpace(name)
		template = strings.TrimSpace(template)

		if !strings.Contains(template, "{url}") {
			return nil, fmt.Errorf("relay %q sem o placeholder {url}: %s", name, template)
		}

		relays = append(relays, Relay{Name: name, Template: template})
	}

	return relays, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
