package config

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/sethvargo/go-envconfig"
)

// Runtime holds the process-level settings read from the environment once at
// startup.
type Runtime struct {
	DBPath    string `env:"BOOZE_DB_PATH, default=./boozetrack.db"`
	LogLevel  string `env:"BOOZE_LOG_LEVEL, default=info"`
	LogPretty bool   `env:"BOOZE_LOG_PRETTY, default=true"`
}

// LoadRuntime reads Runtime from the environment.
func LoadRuntime(ctx context.Context) (Runtime, error) {
	var rt Runtime
	if err := envconfig.Process(ctx, &rt); err != nil {
		return Runtime{}, err
	}
	return rt, nil
}

// Settings are the store preferences a manager can change from the menu.
// They live in a JSON file next to the database so they survive restarts.
type Settings struct {
	LowStockThreshold int    `json:"lowStockThreshold"`
	ExportDir         string `json:"exportDir"`
}

const (
	settingsFilePath         = "./boozetrack_config.json"
	defaultLowStockThreshold = 20
)

var (
	settings Settings
	mu       sync.RWMutex
)

func applyDefaults(s *Settings) {
	if s.LowStockThreshold <= 0 {
		s.LowStockThreshold = defaultLowStockThreshold
	}
	if s.ExportDir == "" {
		s.ExportDir = "."
	}
}

// LoadSettings reads the settings file, backfilling defaults. A missing file
// is not an error; defaults are returned.
func LoadSettings() (Settings, error) {
	mu.Lock()
	defer mu.Unlock()

	var loaded Settings
	file, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return Settings{}, err
		}
	} else if err := json.Unmarshal(file, &loaded); err != nil {
		return Settings{}, err
	}

	applyDefaults(&loaded)
	settings = loaded
	return settings, nil
}

// SaveSettings persists new settings and makes them current.
func SaveSettings(newSettings Settings) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newSettings)

	file, err := json.MarshalIndent(newSettings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(settingsFilePath, file, 0644); err != nil {
		return err
	}
	settings = newSettings
	return nil
}

// GetSettings returns the current settings.
func GetSettings() Settings {
	mu.RLock()
	defer mu.RUnlock()
	s := settings
	applyDefaults(&s)
	return s
}
