package config

import (
	"bytes"
	"costcheck/internal/appdirs"
	"costcheck/log"
	"costcheck/pkg/costapi"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	EnvBaseURL   = "COST_MANAGER_BASE_URL"
	EnvTimeout   = "COST_MANAGER_TIMEOUT_SECONDS"
	EnvRedisAddr = "COSTCHECK_REDIS_ADDR"

	DefaultBaseURL = "http://localhost:3000"
)

type Target struct {
	BaseURL        string `toml:"base_url" validate:"required,url"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=0"`
	UserAgent      string `toml:"user_agent"`
}

type Run struct {
	UserID         int     `toml:"user_id"`
	Year           int     `toml:"year" validate:"gte=1970,lte=9999"`
	Month          int     `toml:"month" validate:"gte=1,lte=12"`
	Description    string  `toml:"description" validate:"required"`
	Category       string  `toml:"category" validate:"required,category"`
	Sum            float64 `toml:"sum"`
	TagDescription bool    `toml:"tag_description"`
	Cleanup        bool    `toml:"cleanup"`
	Extended       bool    `toml:"extended"`
}

type History struct {
	Enabled bool `toml:"enabled"`
	Limit   int  `toml:"limit" validate:"gte=1"`
}

type Queue struct {
	RedisAddr     string `toml:"redis_addr" validate:"required,hostname_port"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db" validate:"gte=0"`
	Concurrency   int    `toml:"concurrency" validate:"gte=1"`
}

type Fake struct {
	Addr string `toml:"addr" validate:"required"`
}

type Config struct {
	Target  Target  `toml:"target"`
	Run     Run     `toml:"run"`
	History History `toml:"history"`
	Queue   Queue   `toml:"queue"`
	Fake    Fake    `toml:"fake"`
}

var Conf = defaultConfig()

var resolveConfigPath = ResolveConfigPath

var validate = newValidator()

// newValidator adds the "category" tag, which accepts the cost manager's
// known categories.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return lo.Contains(costapi.Categories, fl.Field().String())
	})
	return v
}

func defaultConfig() Config {
	return Config{
		Target: Target{
			BaseURL:   DefaultBaseURL,
			UserAgent: "costcheck",
		},
		Run: Run{
			UserID:      123123,
			Year:        2025,
			Month:       2,
			Description: "Test Item",
			Category:    "food",
			Sum:         50,
		},
		History: History{
			Enabled: true,
			Limit:   20,
		},
		Queue: Queue{
			RedisAddr:   "localhost:6379",
			Concurrency: 1,
		},
		Fake: Fake{
			Addr: "127.0.0.1:3000",
		},
	}
}

// ResolveConfigPath returns the config file location for the current layout.
func ResolveConfigPath() (string, error) {
	dirs, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	return dirs.ConfigFile, nil
}

// LoadConfig reads .env, the TOML file (defaults when missing) and the
// environment overrides, then validates the result into Conf.
func LoadConfig() error {
	loadDotEnv()

	cfg, err := loadFile()
	if err != nil {
		return err
	}
	if err = applyEnv(&cfg); err != nil {
		return err
	}
	if err = CheckConfig(cfg); err != nil {
		return err
	}
	Conf = cfg
	return nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.GetLogger().Warn("failed to load .env", zap.Error(err))
	}
}

func loadFile() (Config, error) {
	cfg := defaultConfig()

	configPath, err := resolveConfigPath()
	if err != nil {
		return cfg, fmt.Errorf("resolve config path: %w", err)
	}

	if _, err = os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		log.GetLogger().Debug("config file not found, using defaults", zap.String("path", configPath))
		return cfg, nil
	}

	if _, err = toml.DecodeFile(configPath, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", configPath, err)
	}
	log.GetLogger().Debug("config loaded", zap.String("path", configPath))
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.Target.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvTimeout, err)
		}
		cfg.Target.TimeoutSeconds = seconds
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		cfg.Queue.RedisAddr = v
	}
	return nil
}

// CheckConfig validates cfg against its struct tags.
func CheckConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SaveConfig writes Conf to the resolved config path, creating parent directories.
func SaveConfig() error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if err = toml.NewEncoder(&buf).Encode(Conf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err = os.WriteFile(configPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	log.GetLogger().Info("config saved", zap.String("path", configPath))
	return nil
}

// ResetDefaults restores Conf to the built-in defaults.
func ResetDefaults() {
	Conf = defaultConfig()
}
