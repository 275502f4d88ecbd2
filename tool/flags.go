package tool

import (
	"flag"

	"github.com/wisdomgarden/openwith-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override bridge port")
	flag.StringVar(&cfg.UseTempDir, "useTempDir", "", "override temp dir for materialized copies")
	flag.StringVar(&cfg.UseStoreDriver, "useStoreDriver", "", "override store driver: sqlite|memory")
	flag.StringVar(&cfg.UseStorePath, "useStorePath", "", "override sqlite store path")
	flag.StringVar(&cfg.UseRegistryPath, "useRegistryPath", "", "override content registry path")
	flag.StringVar(&cfg.UseLaunchIntent, "useLaunchIntent", "", "override launch intent file path")
	flag.BoolVar(&cfg.UseMemoryStore, "useMemoryStore", false, "use the in-memory store (shared data lost on exit)")
	flag.BoolVar(&cfg.SkipNotifyWS, "skipNotifyWS", false, "disable the notify websocket")
	flag.Parse()
	return cfg
}
