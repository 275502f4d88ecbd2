package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wisdomgarden/openwith-go/intent"
	"github.com/wisdomgarden/openwith-go/lifecycle"
	"github.com/wisdomgarden/openwith-go/resolver"
	"github.com/wisdomgarden/openwith-go/share"
	"github.com/wisdomgarden/openwith-go/types"
)

func newTestPlugin(t *testing.T, launchIntentPath string) *Plugin {
	t.Helper()
	dir := t.TempDir()
	source := resolver.NewLocalSource(filepath.Join(dir, "registry.json"))
	r := resolver.New(source, dir, "/storage/emulated/0")
	extractor := intent.NewExtractor(r, 5)
	store := share.NewHandoffStore(share.NewMemoryKV())
	return New(extractor, store, lifecycle.LogController{}, 5, launchIntentPath)
}

func textIntent(text string) *types.RawIntent {
	return &types.RawIntent{
		Action:    types.RawActionSend,
		ClipItems: []types.ClipEntry{{Text: text}},
	}
}

func TestOnNewIntentThenFetch(t *testing.T) {
	pl := newTestPlugin(t, "")

	pl.OnNewIntent(textIntent("hello"))
	if !pl.HasPending() {
		t.Fatal("bundle should be pending after delivery")
	}

	bundle, ok := pl.FetchSharedData()
	if !ok {
		t.Fatal("fetch should return the bundle")
	}
	if bundle.Action != types.ActionSend || len(bundle.Items) != 1 || bundle.Items[0].Text != "hello" {
		t.Errorf("unexpected bundle: %+v", bundle)
	}
	if bundle.MergedEventIDs != nil {
		t.Error("merge bookkeeping should not leak to the consumer")
	}

	if _, ok := pl.FetchSharedData(); ok {
		t.Error("second fetch should be empty")
	}
	if pl.HasPending() {
		t.Error("nothing should be pending after fetch")
	}
}

func TestIntentsCoalesceUntilFetch(t *testing.T) {
	pl := newTestPlugin(t, "")

	pl.OnNewIntent(textIntent("one"))
	pl.OnNewIntent(&types.RawIntent{
		Action:    types.RawActionView,
		ClipItems: []types.ClipEntry{{Text: "two"}},
		Extras:    map[string]any{types.ExtraExitOnSent: true},
	})

	bundle, ok := pl.FetchSharedData()
	if !ok {
		t.Fatal("fetch should return the bundle")
	}
	if len(bundle.Items) != 2 {
		t.Fatalf("expected both events coalesced, got %d items", len(bundle.Items))
	}
	if bundle.Action != types.ActionView || !bundle.Exit {
		t.Errorf("metadata should come from the newest event: %+v", bundle)
	}
	if bundle.ReceivedCounts != 2 {
		t.Errorf("unexpected receivedCounts: %d", bundle.ReceivedCounts)
	}
}

func TestInitIsIdempotentForLaunchIntent(t *testing.T) {
	launchPath := filepath.Join(t.TempDir(), "launch-intent.json")
	payload := `{"action":"android.intent.action.SEND","clipItems":[{"text":"from launch"}]}`
	if err := os.WriteFile(launchPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("failed to write launch intent: %v", err)
	}
	pl := newTestPlugin(t, launchPath)

	pl.Init()
	pl.Init()

	bundle, ok := pl.FetchSharedData()
	if !ok {
		t.Fatal("launch intent should produce a bundle")
	}
	if len(bundle.Items) != 1 {
		t.Errorf("repeated init must fold the launch intent once, got %d items", len(bundle.Items))
	}
	if bundle.ReceivedCounts != 1 {
		t.Errorf("repeated init must not double-count, got %d", bundle.ReceivedCounts)
	}
}

func TestInitWithoutLaunchIntent(t *testing.T) {
	pl := newTestPlugin(t, filepath.Join(t.TempDir(), "missing.json"))

	pl.Init()
	if pl.HasPending() {
		t.Error("missing launch intent should leave nothing pending")
	}
}
