package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	GinMode    string
	CORSOrigin string

	DB     DBConfig
	JWT    JWTConfig
	Mail   MailConfig
	Images ImagesConfig
	Log    LogConfig

	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

type DBConfig struct {
	URL      string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string

	MaxOpenConns int
	MaxIdleConns int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	// ArtistEmail receives contact notifications. Defaults to User.
	ArtistEmail string
	ArtistName  string

	PollInterval time.Duration
	MaxAttempts  int
}

type ImagesConfig struct {
	// Base is the directory, relative to one of Roots, holding one folder per category.
	Base  string
	Roots []string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env (optional) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	var errs []error
	intEnv := func(key string, fallback int) int {
		v, err := getInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durationEnv := func(key string, fallback time.Duration) time.Duration {
		v, err := getDuration(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		Port:       getEnv("PORT", "3000"),
		GinMode:    getEnv("GIN_MODE", ""),
		CORSOrigin: getEnv("CORS_ORIGIN", getEnv("FRONTEND_URL", "http://localhost:5173")),
		DB: DBConfig{
			URL:          getEnv("DB_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         intEnv("DB_PORT", 5432),
			Name:         getEnv("DB_NAME", "peintreab_db"),
			User:         getEnv("DB_USER", "peintreab_user"),
			Password:     getEnv("DB_PASSWORD", "peintreab_password"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: intEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: intEnv("DB_MAX_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    durationEnv("JWT_TTL", 24*time.Hour),
		},
		Mail: MailConfig{
			Host:         getEnv("EMAIL_HOST", "smtp.gmail.com"),
			Port:         intEnv("EMAIL_PORT", 587),
			User:         getEnv("EMAIL_USER", ""),
			Password:     getEnv("EMAIL_PASSWORD", ""),
			From:         getEnv("EMAIL_FROM", ""),
			ArtistEmail:  getEnv("ARTIST_EMAIL", ""),
			ArtistName:   getEnv("ARTIST_NAME", "The artist"),
			PollInterval: durationEnv("MAIL_POLL_INTERVAL", 5*time.Second),
			MaxAttempts:  intEnv("MAIL_MAX_ATTEMPTS", 5),
		},
		Images: ImagesConfig{
			Base:  strings.Trim(getEnv("IMAGES_BASE", "public/images"), "/"),
			Roots: splitList(getEnv("IMAGES_ROOTS", "")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
	}

	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.User
	}
	if cfg.Mail.ArtistEmail == "" {
		cfg.Mail.ArtistEmail = cfg.Mail.User
	}
	if len(cfg.Images.Roots) == 0 {
		cfg.Images.Roots = DefaultImageRoots()
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateServer checks the keys the HTTP server cannot run without.
func (c *Config) ValidateServer() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("missing required environment variable: JWT_SECRET")
	}
	return nil
}

// DSN returns DB_URL when set, otherwise a key/value PostgreSQL DSN.
func (d DBConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Enabled reports whether SMTP credentials are configured.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.User != "" && m.Password != ""
}

// DefaultImageRoots lists the directories tried, in order, when resolving the
// image tree: the container path, the repository root relative to the binary,
// and the parent and current working directories.
func DefaultImageRoots() []string {
	roots := []string{"/app"}
	if exe, err := os.Executable(); err == nil {
		roots = append(roots, filepath.Join(filepath.Dir(exe), "..", ".."))
	}
	if wd, err := os.Getwd(); err == nil {
		roots = append(roots, filepath.Join(wd, ".."), wd)
	}
	return roots
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
