package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sandeepkv93/taskmaster/internal/storage"
)

type RuntimeConfig struct {
	StorageKind    storage.Kind
	DataDir        string
	StorageKey     string
	LogLevel       string
	LogFile        string
	Reminders      bool
	ReminderBuffer int
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StorageKind:    storage.KindFile,
		DataDir:        ".taskmaster",
		StorageKey:     storage.DefaultKey,
		LogLevel:       "info",
		Reminders:      true,
		ReminderBuffer: 16,
	}
}

// Load reads an optional dotenv file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (RuntimeConfig, error) {
	if strings.TrimSpace(envFile) != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return RuntimeConfig{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKMASTER_STORAGE"); ok {
		cfg.StorageKind = storage.Kind(strings.ToLower(v))
	}
	if v, ok := getEnvString("TASKMASTER_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("TASKMASTER_STORAGE_KEY"); ok {
		cfg.StorageKey = v
	}
	if v, ok := getEnvString("TASKMASTER_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKMASTER_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvBool("TASKMASTER_REMINDERS"); ok {
		cfg.Reminders = v
	}
	if v, ok := getEnvInt("TASKMASTER_REMINDER_BUFFER"); ok && v > 0 {
		cfg.ReminderBuffer = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if !c.StorageKind.IsValid() {
		return fmt.Errorf("config: unknown storage kind %q", c.StorageKind)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return errors.New("config: storage key is required")
	}
	if c.ReminderBuffer <= 0 {
		return fmt.Errorf("config: reminder buffer must be positive, got %d", c.ReminderBuffer)
	}
	return nil
}

func (c RuntimeConfig) LogPath() string {
	if strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "taskmaster.log")
}

func (c RuntimeConfig) StorageOptions() storage.Options {
	return storage.Options{Kind: c.StorageKind, Dir: c.DataDir, Key: c.StorageKey}
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
