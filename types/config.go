package types

// AppConfig is the persisted daemon configuration (config.yaml), with
// OPENWITH_* environment overrides applied on top.
type AppConfig struct {
	Port               int    `yaml:"port" env:"OPENWITH_PORT"`
	MaxAttachmentCount int    `yaml:"maxAttachmentCount" env:"OPENWITH_MAX_ATTACHMENT_COUNT"`
	TempDir            string `yaml:"tempDir" env:"OPENWITH_TEMP_DIR"`
	StoreDriver        string `yaml:"storeDriver" env:"OPENWITH_STORE_DRIVER"` // sqlite | memory
	StorePath          string `yaml:"storePath" env:"OPENWITH_STORE_PATH"`
	RegistryPath       string `yaml:"registryPath" env:"OPENWITH_REGISTRY_PATH"`
	LaunchIntentPath   string `yaml:"launchIntentPath" env:"OPENWITH_LAUNCH_INTENT_PATH"`
	LifecycleSocket    string `yaml:"lifecycleSocket" env:"OPENWITH_LIFECYCLE_SOCKET"`
	// ExternalStorageRoot prefixes external-storage document references.
	ExternalStorageRoot string `yaml:"externalStorageRoot" env:"OPENWITH_EXTERNAL_STORAGE_ROOT"`
	// IntentRatePPS limits intent ingestion; 0 disables the limiter.
	IntentRatePPS int  `yaml:"intentRatePPS" env:"OPENWITH_INTENT_RATE_PPS"`
	NotifyWS      bool `yaml:"notifyWS" env:"OPENWITH_NOTIFY_WS"`
}

// Config holds runtime overrides from CLI flags.
type Config struct {
	Log             string
	UseConfigPath   string
	UsePort         int
	UseTempDir      string
	UseStoreDriver  string
	UseStorePath    string
	UseRegistryPath string
	UseLaunchIntent string
	UseMemoryStore  bool
	SkipNotifyWS    bool
}
