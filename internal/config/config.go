package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret         string `env:"JWT_SECRET,required"`
	JWTAccessTTLMin   int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLDays int    `env:"JWT_REFRESH_TTL_DAYS" envDefault:"7"`

	RAGAPIURL string `env:"RAG_API_URL,required"`
	RAGAPIKey string `env:"RAG_API_KEY"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:4200"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
