package config

import (
	"errors"
	"io/fs"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionExpiry = 7 * 24 * time.Hour
	DefaultIssuer        = "financeu"
	DefaultCookieName    = "token"
)

type AppConfig struct {
	Env          string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DbConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
}

type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
	Issuer    string
}

type CookieConfig struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

type RateLimitConfig struct {
	AuthRequests int
	AuthWindow   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type Config struct {
	AppConfig       *AppConfig
	DbConfig        *DbConfig
	JWTConfig       *JWTConfig
	CookieConfig    *CookieConfig
	RateLimitConfig *RateLimitConfig
	CORSConfig      *CORSConfig
	BcryptCost      int
}

// IsDev reports whether the service runs in a development environment.
func (c *Config) IsDev() bool {
	return c.AppConfig.Env == "dev" || c.AppConfig.Env == "development"
}

// LoadConfig reads each env file that exists into the environment and builds
// the configuration from it. Earlier files win.
func LoadConfig(logger *zap.Logger, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("no .env file found", zap.String("path", f))
			} else {
				logger.Warn("failed to load .env file", zap.String("path", f), zap.Error(err))
			}
			continue
		}
		logger.Info("loaded .env file", zap.String("path", f))
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv. It fails with a *ConfigError
// naming the offending key.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env{getenv: getenv}

	/** jwt config */
	secret := getenv("JWT_SECRET")
	if strings.TrimSpace(secret) == "" {
		return nil, &ConfigError{Key: "JWT_SECRET", Err: ErrMissing}
	}
	accessTTL, err := e.expiry("SESSION_EXPIRY", DefaultSessionExpiry)
	if err != nil {
		return nil, err
	}
	jwtConfig := &JWTConfig{
		Secret:    secret,
		AccessTTL: accessTTL,
		Issuer:    e.str("JWT_ISSUER", DefaultIssuer),
	}

	/** db config */
	dsn := getenv("POSTGRES_DSN")
	if dsn == "" {
		return nil, &ConfigError{Key: "POSTGRES_DSN", Err: ErrMissing}
	}
	maxOpenConns, err := e.int("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}
	maxIdleConns, err := e.int("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}
	maxConnLifetime, err := e.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	dbConfig := &DbConfig{
		DSN:             dsn,
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		MaxConnLifetime: maxConnLifetime,
	}

	/** app config */
	readTimeout, err := e.duration("APP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := e.duration("APP_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	idleTimeout, err := e.duration("APP_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	appConfig := &AppConfig{
		Env:          e.str("APP_ENV", "production"),
		Port:         e.str("APP_PORT", "3000"),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	/** cookie config */
	secure, err := e.bool("COOKIE_SECURE", true)
	if err != nil {
		return nil, err
	}
	sameSite, err := parseSameSite(e.str("COOKIE_SAMESITE", "lax"))
	if err != nil {
		return nil, err
	}
	cookieConfig := &CookieConfig{
		Name:     DefaultCookieName,
		Domain:   getenv("COOKIE_DOMAIN"),
		Secure:   secure,
		SameSite: sameSite,
	}

	/** rate limit config */
	authRequests, err := e.int("AUTH_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	/** cors config */
	var origins []string
	for _, o := range strings.Split(e.str("CORS_ORIGIN", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	bcryptCost, err := e.int("BCRYPT_COST", bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, &ConfigError{Key: "BCRYPT_COST", Err: ErrOutOfRange}
	}

	return &Config{
		AppConfig:       appConfig,
		DbConfig:        dbConfig,
		JWTConfig:       jwtConfig,
		CookieConfig:    cookieConfig,
		RateLimitConfig: &RateLimitConfig{AuthRequests: authRequests, AuthWindow: time.Minute},
		CORSConfig:      &CORSConfig{AllowedOrigins: origins},
		BcryptCost:      bcryptCost,
	}, nil
}

const day = 24 * time.Hour

// largest day count whose duration fits in an int64
const maxExpiryDays = math.MaxInt64 / int64(day)

// ParseExpiry parses a Go duration, additionally accepting a whole number of
// days such as "7d".
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		if n <= 0 || int64(n) > maxExpiryDays {
			return 0, ErrOutOfRange
		}
		return time.Duration(n) * day, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, ErrOutOfRange
	}
	return d, nil
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, &ConfigError{Key: "COOKIE_SAMESITE", Err: ErrInvalidValue}
	}
}

type env struct {
	getenv func(string) string
}

func (e env) str(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

func (e env) int(key string, def int) (int, error) {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ConfigError{Key: key, Err: err}
	}
	return n, nil
}

func (e env) bool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &ConfigError{Key: key, Err: err}
	}
	return b, nil
}

func (e env) duration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &ConfigError{Key: key, Err: err}
	}
	return d, nil
}

func (e env) expiry(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := ParseExpiry(v)
	if err != nil {
		return 0, &ConfigError{Key: key, Err: err}
	}
	return d, nil
}
