package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config armazena todas as configurações da API UaiFood.
type Config struct {
	// Geral
	Port        string `envconfig:"PORT" default:"3991"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Banco de Dados (PostgreSQL)
	DatabaseURL    string        `envconfig:"DATABASE_URL" required:"true"`
	DBTimeout      time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`
	OrderTxTimeout time.Duration `envconfig:"ORDER_TX_TIMEOUT" default:"5s"`

	// Cache (Redis)
	RedisAddr string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	// Segurança (JWT)
	JWTSecretKey string        `envconfig:"JWT_SECRET_KEY" required:"true"`
	TokenExpiry  time.Duration `envconfig:"TOKEN_EXPIRY" default:"8h"`

	// Rate Limiting
	RateLimitMaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"100"`
	RateLimitPeriod      time.Duration `envconfig:"RATE_LIMIT_PERIOD" default:"1m"`
	LoginRateLimitMax    int           `envconfig:"LOGIN_RATE_LIMIT_MAX" default:"10"`

	// CORS (front-end web)
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// O .env, quando existe, já foi carregado pelo main via godotenv.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY não pode ser vazio")
	}
	if c.DBTimeout <= 0 || c.OrderTxTimeout <= 0 {
		return fmt.Errorf("DB_TIMEOUT e ORDER_TX_TIMEOUT devem ser positivos")
	}
	if c.RateLimitMaxRequests <= 0 || c.LoginRateLimitMax <= 0 {
		return fmt.Errorf("limites de requisição devem ser positivos")
	}
	return nil
}

// IsProduction indica se a API está rodando em produção.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
