package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config es la configuración raíz del servicio.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Requests RequestsConfig `yaml:"requests"`
	Plans    PlansConfig    `yaml:"plans"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig agrupa settings del HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"SERVER_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig: DSN vacío => repos in-memory (modo dev).
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DB_DSN" env-default:""`
}

// AuthConfig: Mode define cómo se verifican tokens.
//   - "none":     modo dev, header X-Debug-Clinic-ID
//   - "jwt":      HS256 local con Secret
//   - "registry": verificación remota contra el registro de la red
type AuthConfig struct {
	Mode            string `yaml:"mode"              env:"AUTH_MODE"              env-default:"none"`
	JWTSecret       string `yaml:"jwt_secret"        env:"AUTH_JWT_SECRET"        env-default:""`
	RegistryBaseURL string `yaml:"registry_base_url" env:"AUTH_REGISTRY_BASE_URL" env-default:""`
	RegistryAPIKey  string `yaml:"registry_api_key"  env:"AUTH_REGISTRY_API_KEY"  env-default:""`
}

// RequestsConfig parametriza el workflow de solicitudes entre clínicas.
// ApprovalDelay simula la latencia de aprobación del par (no es una constante).
type RequestsConfig struct {
	ApprovalDelay time.Duration `yaml:"approval_delay" env:"REQUESTS_APPROVAL_DELAY" env-default:"4s"`
}

// PlansConfig: BaseURL vacío => sin gating por plan (todo permitido).
type PlansConfig struct {
	BaseURL string `yaml:"base_url" env:"PLANS_BASE_URL" env-default:""`
	APIKey  string `yaml:"api_key"  env:"PLANS_API_KEY"  env-default:""`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
	App    string `yaml:"app"    env:"APP_NAME"   env-default:"clinic-data-exchange"`
}

// Load lee configuración desde YAML + env.
// Prioridad: ENV > YAML > defaults (tags env-default).
// El path del YAML viene de CONFIG_PATH (fallback "./config.yaml"); si el
// archivo no existe y CONFIG_PATH no fue seteado explícito, solo ENV+defaults.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.TrimSpace(c.Auth.Mode) {
	case "", "none":
	case "jwt":
		if strings.TrimSpace(c.Auth.JWTSecret) == "" {
			return fmt.Errorf("auth mode jwt requires AUTH_JWT_SECRET")
		}
	case "registry":
		if strings.TrimSpace(c.Auth.RegistryBaseURL) == "" {
			return fmt.Errorf("auth mode registry requires AUTH_REGISTRY_BASE_URL")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}

	if c.Requests.ApprovalDelay < 0 {
		return fmt.Errorf("approval delay must be >= 0")
	}
	return nil
}
