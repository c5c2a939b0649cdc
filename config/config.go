// Package config loads the application settings from the environment. A
// .env file is honored during development; real deployments inject the
// variables directly.
package config

import (
	"os"
	"strconv"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// App is the fully resolved configuration, built once in main and passed
// down. It implements the root package's Config interface for the auth
// components.
type App struct {
	// server
	ListenAddr string
	LogLevel   string
	Debug      bool

	// mongo
	MongoURI      string
	MongoDatabase string

	// auth
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	AuthScheme      string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	BcryptCost      int

	// mail
	SendGridAPIKey string
	MailFromName   string
	MailFromEmail  string
	// FrontendBaseURL hosts the pages verification/reset links point at
	FrontendBaseURL string
	MailTemplates   string

	// object storage
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string

	// payments
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
}

// Load reads .env when present and resolves every setting. The only fatal
// condition is a missing JWT signing secret; everything else has a default
// or degrades at the component that needs it.
func Load() (*App, error) {
	// missing .env is fine, env vars may come from the process environment
	_ = godotenv.Load()

	app := &App{
		ListenAddr: envString("LISTEN_ADDR", ":3000"),
		LogLevel:   envString("LOG_LEVEL", "info"),
		Debug:      envBool("DEBUG", false),

		MongoURI:      envString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: envString("MONGO_DATABASE", "shop"),

		SigningKey:      os.Getenv("JWT_SECRET"),
		SigningMethod:   envString("JWT_SIGNING_METHOD", "HS256"),
		ContextKey:      envString("AUTH_CONTEXT_KEY", "user"),
		AuthScheme:      envString("AUTH_SCHEME", "Bearer"),
		Issuer:          envString("JWT_ISSUER", "go-shop"),
		AccessTokenTTL:  envDuration("ACCESS_TOKEN_TTL", 5*time.Minute),
		RefreshTokenTTL: envDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetTokenTTL:   envDuration("RESET_TOKEN_TTL", time.Hour),
		BcryptCost:      envInt("BCRYPT_COST", 14),

		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		MailFromName:    envString("MAIL_FROM_NAME", "Shop"),
		MailFromEmail:   envString("MAIL_FROM_EMAIL", "no-reply@example.com"),
		FrontendBaseURL: envString("FRONTEND_BASE_URL", "http://localhost:5173"),
		MailTemplates:   envString("MAIL_TEMPLATES_DIR", "./mailer/templates"),

		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
	}

	if app.SigningKey == "" {
		return nil, goerrors.New("JWT_SECRET must be set", goerrors.CategoryBadInput).
			WithTextCode("MISSING_SIGNING_KEY")
	}

	return app, nil
}

func (a *App) GetSigningKey() string             { return a.SigningKey }
func (a *App) GetSigningMethod() string          { return a.SigningMethod }
func (a *App) GetContextKey() string             { return a.ContextKey }
func (a *App) GetAuthScheme() string             { return a.AuthScheme }
func (a *App) GetIssuer() string                 { return a.Issuer }
func (a *App) GetAccessTokenTTL() time.Duration  { return a.AccessTokenTTL }
func (a *App) GetRefreshTokenTTL() time.Duration { return a.RefreshTokenTTL }
func (a *App) GetResetTokenTTL() time.Duration   { return a.ResetTokenTTL }
func (a *App) GetBcryptCost() int                { return a.BcryptCost }

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
