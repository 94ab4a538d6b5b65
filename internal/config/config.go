// Package config locates, loads and validates the watchdog configuration.
//
// Values come from three layers, later ones winning: the YAML file, a .env
// file next to it, and the process environment. Defaults fill whatever is
// still unset, then the result is validated.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/msageha/mcuwatch/internal/fault"
	"github.com/msageha/mcuwatch/internal/freeze"
	"github.com/msageha/mcuwatch/internal/model"
)

const (
	DefaultFileName = "mcuwatch.yaml"
	// EnvConfigPath names the config file when --config is not given.
	EnvConfigPath = "MCUWATCH_CONFIG"
	DotEnvFile    = ".env"

	DefaultTimeoutSec     = 30
	DefaultSettleDelaySec = 5
	DefaultCooldownSec    = 3600
	DefaultStateDir       = "state"
	DefaultLogDir         = "logs"
	DefaultLogLevel       = "info"
	DefaultStateBackend   = "yaml"
)

var ErrConfigNotFound = errors.New("config file not found")

// Overrides are the settings that may come from the environment instead of
// the file, typically secrets.
type Overrides struct {
	MCUURL       *string `env:"MCUWATCH_MCU_URL"`
	MCUUsername  *string `env:"MCUWATCH_MCU_USERNAME"`
	MCUPassword  *string `env:"MCUWATCH_MCU_PASSWORD"`
	SMTPPassword *string `env:"MCUWATCH_SMTP_PASSWORD"`
	LogLevel     *string `env:"MCUWATCH_LOG_LEVEL"`
	LogDir       *string `env:"MCUWATCH_LOG_DIR"`
	StateDir     *string `env:"MCUWATCH_STATE_DIR"`
}

// Find resolves the config path: explicit, then $MCUWATCH_CONFIG, then the
// first mcuwatch.yaml found walking up from the working directory.
func Find(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	if p := search(dir); p != "" {
		return p, nil
	}
	return "", fault.Config("find config", fmt.Errorf("%w: no %s in %s or its parents", ErrConfigNotFound, DefaultFileName, dir))
}

func search(dir string) string {
	for {
		candidate := filepath.Join(dir, DefaultFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads the config at path with the process environment applied.
func Load(path string) (model.Config, error) {
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return model.Config{}, fault.Config("read environment", err)
	}
	return LoadWithEnv(path, es)
}

// LoadWithEnv is Load with an explicit environment. Entries in a .env file
// beside the config fill in only what es does not already set.
func LoadWithEnv(path string, es env.EnvSet) (model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Config{}, fault.Config("read config", fmt.Errorf("%w: %s", ErrConfigNotFound, path))
		}
		return model.Config{}, fault.Config("read config", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return model.Config{}, err
	}

	baseDir := filepath.Dir(path)
	merged, err := withDotEnv(filepath.Join(baseDir, DotEnvFile), es)
	if err != nil {
		return model.Config{}, err
	}
	if err := ApplyOverrides(&cfg, merged); err != nil {
		return model.Config{}, err
	}
	ApplyDefaults(&cfg, baseDir)
	if err := Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func withDotEnv(path string, es env.EnvSet) (env.EnvSet, error) {
	merged := env.EnvSet{}
	dotenv, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fault.Config("read .env", err)
	}
	for k, v := range dotenv {
		merged[k] = v
	}
	for k, v := range es {
		merged[k] = v
	}
	return merged, nil
}

// Parse decodes YAML. Unknown keys are rejected so typos surface at startup.
func Parse(data []byte) (model.Config, error) {
	var cfg model.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return model.Config{}, fault.Config("parse config", err)
	}
	return cfg, nil
}

func ApplyOverrides(cfg *model.Config, es env.EnvSet) error {
	var ov Overrides
	if err := env.Unmarshal(es, &ov); err != nil {
		return fault.Config("environment overrides", err)
	}
	setIf(&cfg.MCU.URL, ov.MCUURL)
	setIf(&cfg.MCU.Username, ov.MCUUsername)
	setIf(&cfg.MCU.Password, ov.MCUPassword)
	setIf(&cfg.Notify.Email.Password, ov.SMTPPassword)
	setIf(&cfg.Logging.Level, ov.LogLevel)
	setIf(&cfg.Logging.Dir, ov.LogDir)
	setIf(&cfg.Watchdog.StateDir, ov.StateDir)
	return nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// ApplyDefaults fills unset values and makes relative paths relative to
// baseDir, the directory holding the config file.
func ApplyDefaults(cfg *model.Config, baseDir string) {
	if cfg.MCU.TimeoutSec == 0 {
		cfg.MCU.TimeoutSec = DefaultTimeoutSec
	}
	if cfg.Watchdog.SettleDelaySec == nil {
		cfg.Watchdog.SettleDelaySec = lo.ToPtr(DefaultSettleDelaySec)
	}
	if cfg.Watchdog.FreezePolicy == "" {
		cfg.Watchdog.FreezePolicy = string(freeze.DefaultPolicy)
	}
	if cfg.Watchdog.StateBackend == "" {
		cfg.Watchdog.StateBackend = DefaultStateBackend
	}
	if cfg.Watchdog.StateDir == "" {
		cfg.Watchdog.StateDir = DefaultStateDir
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = DefaultLogDir
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Notify.CooldownSec == nil {
		cfg.Notify.CooldownSec = lo.ToPtr(DefaultCooldownSec)
	}

	cfg.Watchdog.StateDir = resolve(baseDir, cfg.Watchdog.StateDir)
	cfg.Logging.Dir = resolve(baseDir, cfg.Logging.Dir)
	if cfg.Watchdog.LockFile != "" {
		cfg.Watchdog.LockFile = resolve(baseDir, cfg.Watchdog.LockFile)
	}
}

func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct tags and reports every violation
// at once.
func Validate(cfg model.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fault.Config("validate config", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fault.Config("validate config", errors.New(strings.Join(msgs, "; ")))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "unique":
		return field + " contains duplicate names"
	case "url":
		return fmt.Sprintf("%s is not a valid URL: %q", field, fe.Value())
	case "email":
		return fmt.Sprintf("%s is not a valid email address: %q", field, fe.Value())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	}
}
