package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs; it is parsed once in main and
// injected into the components that use it.
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	SendgridAPIKey string        `env:"SENDGRID_API_KEY"`
	MailFrom       string        `env:"MAIL_FROM" envDefault:"no-reply@phonebook.local"`
	BaseURL        string        `env:"BASE_URL" envDefault:"http://localhost:8080"`
	StoreBackend   string        `env:"STORE_BACKEND" envDefault:"postgres"`
	ContactsFile   string        `env:"CONTACTS_FILE" envDefault:"db/contacts.json"`
	AvatarDir      string        `env:"AVATAR_DIR" envDefault:"public/avatars"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
