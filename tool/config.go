package tool

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/wisdomgarden/openwith-go/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

const DefaultMaxAttachmentCount = 5

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		Port:                53327,
		MaxAttachmentCount:  DefaultMaxAttachmentCount,
		TempDir:             filepath.Join(os.TempDir(), "openwith"),
		StoreDriver:         "sqlite",
		StorePath:           "openwith.db",
		RegistryPath:        "content-registry.json",
		LaunchIntentPath:    "launch-intent.json",
		LifecycleSocket:     "/tmp/openwith-lifecycle.sock",
		ExternalStorageRoot: "/storage/emulated/0",
		IntentRatePPS:       0,
		NotifyWS:            true,
	}
}

// LoadConfig reads config.yaml (creating it with defaults on first run) and
// applies OPENWITH_* environment overrides on top.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			return finishLoad(cfg)
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	return finishLoad(cfg)
}

func finishLoad(cfg types.AppConfig) (types.AppConfig, error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to apply environment overrides: %v", err)
	}
	// A broken cap falls back to the stock value rather than failing startup.
	if cfg.MaxAttachmentCount <= 0 {
		DefaultLogger.Warnf("Invalid maxAttachmentCount %d, using default %d",
			cfg.MaxAttachmentCount, DefaultMaxAttachmentCount)
		cfg.MaxAttachmentCount = DefaultMaxAttachmentCount
	}
	CurrentConfig = cfg
	return cfg, nil
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
