package main

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/wisdomgarden/openwith-go/api"
	"github.com/wisdomgarden/openwith-go/intent"
	"github.com/wisdomgarden/openwith-go/lifecycle"
	"github.com/wisdomgarden/openwith-go/plugin"
	"github.com/wisdomgarden/openwith-go/resolver"
	"github.com/wisdomgarden/openwith-go/share"
	"github.com/wisdomgarden/openwith-go/tool"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if cfg.UsePort > 0 {
		appCfg.Port = cfg.UsePort
	}
	if cfg.UseTempDir != "" {
		appCfg.TempDir = cfg.UseTempDir
	}
	if cfg.UseStoreDriver != "" {
		appCfg.StoreDriver = cfg.UseStoreDriver
	}
	if cfg.UseMemoryStore {
		appCfg.StoreDriver = "memory"
	}
	if cfg.UseStorePath != "" {
		appCfg.StorePath = cfg.UseStorePath
	}
	if cfg.UseRegistryPath != "" {
		appCfg.RegistryPath = cfg.UseRegistryPath
	}
	if cfg.UseLaunchIntent != "" {
		appCfg.LaunchIntentPath = cfg.UseLaunchIntent
	}
	if cfg.SkipNotifyWS {
		appCfg.NotifyWS = false
	}

	tool.InitLogger()
	if cfg.Log == "" {
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	} else {
		switch strings.ToLower(cfg.Log) {
		case "dev":
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		case "prod":
			tool.DefaultLogger.SetLevel(log.InfoLevel)
		case "none":
			tool.DefaultLogger.SetLevel(log.FatalLevel)
		default:
			tool.DefaultLogger.Warnf("Unknown log mode %q, using debug level", cfg.Log)
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		}
	}

	var kv share.KV
	switch appCfg.StoreDriver {
	case "memory":
		kv = share.NewMemoryKV()
	default:
		sqliteKV, err := share.NewSQLiteKV(appCfg.StorePath)
		if err != nil {
			tool.DefaultLogger.Fatalf("Store startup failed: %v", err)
		}
		kv = sqliteKV
	}
	defer func() {
		if err := kv.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close store: %v", err)
		}
	}()

	source := resolver.NewLocalSource(appCfg.RegistryPath)
	pathResolver := resolver.New(source, appCfg.TempDir, appCfg.ExternalStorageRoot)
	extractor := intent.NewExtractor(pathResolver, appCfg.MaxAttachmentCount)
	handoff := share.NewHandoffStore(kv)

	var lc lifecycle.Controller
	if appCfg.LifecycleSocket != "" {
		lc = lifecycle.NewSocketController(appCfg.LifecycleSocket)
	} else {
		lc = lifecycle.LogController{}
	}

	pl := plugin.New(extractor, handoff, lc, appCfg.MaxAttachmentCount, appCfg.LaunchIntentPath)

	apiServer := api.NewServer(appCfg.Port, pl, appCfg.IntentRatePPS, appCfg.NotifyWS)
	go func() {
		if err := apiServer.Start(); err != nil {
			tool.DefaultLogger.Fatalf("Bridge server startup failed: %v", err)
		}
	}()

	// fold the launch intent before the web layer asks for it
	pl.Init()

	select {}
}
