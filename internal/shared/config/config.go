package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT" validate:"required"`
	Env             string   `env:"ENV" validate:"oneof=dev local staging production"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS"`

	ObjectStoreType string `env:"OBJECT_STORE" validate:"oneof=local s3"`
	LocalStoreDir   string `env:"OUTPUT_DIR" validate:"required_if=ObjectStoreType local"`
	AWSRegion       string `env:"AWS_REGION" validate:"required_if=ObjectStoreType s3"`
	S3Bucket        string `env:"S3_BUCKET" validate:"required_if=ObjectStoreType s3"`
	S3Prefix        string `env:"S3_PREFIX"`
	S3Endpoint      string `env:"S3_ENDPOINT" validate:"omitempty,url"`
	S3AccessKey     string `env:"S3_ACCESS_KEY" validate:"required_with=S3SecretKey"`
	S3SecretKey     string `env:"S3_SECRET_KEY" validate:"required_with=S3AccessKey"`
	SSEKMSKeyID     string `env:"SSE_KMS_KEY_ID"`

	LLMAPIKey  string        `env:"OPENROUTER_API_KEY" validate:"required"`
	LLMBaseURL string        `env:"LLM_BASE_URL" validate:"omitempty,url"`
	LLMModel   string        `env:"LLM_MODEL"`
	LLMTimeout time.Duration `env:"LLM_TIMEOUT_SECONDS" validate:"gt=0"`
	LLMReferer string        `env:"LLM_REFERER"`
	LLMTitle   string        `env:"LLM_TITLE"`

	MaxUploadBytes      int64   `env:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	UploadRatePerMinute float64 `env:"UPLOAD_RATE_PER_MINUTE" validate:"gte=0"`
	UploadBurst         int     `env:"UPLOAD_BURST" validate:"gte=0"`
}

const (
	defaultLLMTimeout     = 120 * time.Second
	defaultMaxUploadBytes = 10 << 20
	defaultUploadBurst    = 5
)

// Load reads configuration from environment variables with sensible defaults
// and validates it. `.env` and `cmd/.env` are loaded first when present;
// variables already set in the environment win.
func Load() (Config, error) {
	LoadEnvFiles(".env", "cmd/.env")

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("OUTPUT_DIR", "./outputs"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		LLMAPIKey:       strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
		LLMModel:        getEnv("LLM_MODEL", ""),
		LLMReferer:      getEnv("LLM_REFERER", ""),
		LLMTitle:        getEnv("LLM_TITLE", ""),
	}

	var errs []error
	timeoutSeconds, err := getFloat("LLM_TIMEOUT_SECONDS", defaultLLMTimeout.Seconds())
	errs = append(errs, err)
	cfg.LLMTimeout = time.Duration(timeoutSeconds * float64(time.Second))

	maxBytes, err := getInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	errs = append(errs, err)
	cfg.MaxUploadBytes = int64(maxBytes)

	cfg.UploadRatePerMinute, err = getFloat("UPLOAD_RATE_PER_MINUTE", 0)
	errs = append(errs, err)
	cfg.UploadBurst, err = getInt("UPLOAD_BURST", defaultUploadBurst)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFiles loads the given dotenv files if they exist. Missing or
// malformed files are skipped.
func LoadEnvFiles(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate reports every invalid field by its environment variable name.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "required_if":
		return fe.Field() + " is required when " + fe.Param()
	case "required_with":
		return fe.Field() + " is required with " + fe.Param()
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fmt.Sprint(fe.Value()))
	case "url":
		return fe.Field() + " must be a URL"
	default:
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
}

// UploadRate returns the per-second refill rate for upload throttling.
func (c Config) UploadRate() float64 {
	return c.UploadRatePerMinute / 60
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3", "r2":
		return "s3"
	default:
		return "local"
	}
}
