package plugin

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/wisdomgarden/openwith-go/intent"
	"github.com/wisdomgarden/openwith-go/lifecycle"
	"github.com/wisdomgarden/openwith-go/share"
	"github.com/wisdomgarden/openwith-go/tool"
	"github.com/wisdomgarden/openwith-go/types"
)

// Notifier pushes bundle updates to the web layer. Implemented by the api
// notify hub; nil means no push channel is attached.
type Notifier interface {
	Broadcast(notification *types.Notification)
}

// Plugin is the command dispatcher: it buffers inbound intents, folds them
// into the persisted bundle and serves the four bridge commands. Intent
// delivery and fetch arrive on concurrent HTTP handlers, so one mutex
// serializes everything that touches the buffer and the store.
type Plugin struct {
	mu        sync.Mutex
	extractor *intent.Extractor
	store     *share.HandoffStore
	lifecycle lifecycle.Controller
	notifier  Notifier

	maxAttachmentCount int
	launchIntentPath   string
	pending            []types.ShareEvent
}

func New(extractor *intent.Extractor, store *share.HandoffStore, lc lifecycle.Controller, maxAttachmentCount int, launchIntentPath string) *Plugin {
	if maxAttachmentCount <= 0 {
		maxAttachmentCount = tool.DefaultMaxAttachmentCount
	}
	return &Plugin{
		extractor:          extractor,
		store:              store,
		lifecycle:          lc,
		maxAttachmentCount: maxAttachmentCount,
		launchIntentPath:   launchIntentPath,
	}
}

// SetNotifier attaches the push channel. Call before the server starts.
func (p *Plugin) SetNotifier(n Notifier) {
	p.notifier = n
}

func (p *Plugin) MaxAttachmentCount() int {
	return p.maxAttachmentCount
}

// SetVerbosity adjusts the process log level from the web layer.
func (p *Plugin) SetVerbosity(level int) {
	tool.DefaultLogger.Debugf("setVerbosity() %d", level)
	tool.SetVerbosity(level)
}

// Init resets verbosity and re-processes the host's launch intent, so a web
// layer reload never misses the event the app was opened with.
func (p *Plugin) Init() {
	tool.DefaultLogger.Debugf("init()")
	tool.SetVerbosity(tool.VerbosityInfo)

	in, eventID, err := p.loadLaunchIntent()
	if err != nil {
		tool.DefaultLogger.Debugf("[Plugin] No launch intent: %v", err)
		return
	}
	p.deliver(in, eventID)
}

// OnNewIntent handles an intent delivered while the app is running.
func (p *Plugin) OnNewIntent(in *types.RawIntent) {
	if in != nil {
		tool.DefaultLogger.Debugf("onNewIntent() %s", in.Action)
	}
	p.deliver(in, "")
}

// deliver extracts the intent, queues the event and runs a merge pass.
// A fixed eventID overrides the generated one so re-processing the same
// launch intent stays idempotent.
func (p *Plugin) deliver(in *types.RawIntent, eventID string) {
	ev, ok := p.extractor.Extract(in)
	if !ok {
		return
	}
	if eventID != "" {
		ev.ID = eventID
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, ev)
	p.processPendingLocked()
}

// processPendingLocked folds every queued event, in arrival order, into the
// stored bundle. Caller holds p.mu.
func (p *Plugin) processPendingLocked() {
	bundle, _ := p.store.Load()
	for _, ev := range p.pending {
		bundle = share.Merge(bundle, ev, p.maxAttachmentCount)
	}
	p.pending = nil

	if bundle == nil {
		return
	}
	p.store.Put(bundle)
	tool.DefaultLogger.Infof("[Plugin] Pending bundle updated: %d items, %d received",
		len(bundle.Items), bundle.ReceivedCounts)

	if p.notifier != nil {
		p.notifier.Broadcast(&types.Notification{
			Type:    types.NotifyTypeSharedDataUpdated,
			Title:   "Shared Data",
			Message: fmt.Sprintf("%d item(s) pending", len(bundle.Items)),
			Data: map[string]any{
				"items":          len(bundle.Items),
				"receivedCounts": bundle.ReceivedCounts,
			},
		})
	}
}

// FetchSharedData returns the pending bundle and destroys it; the second
// fetch in a row comes back empty.
func (p *Plugin) FetchSharedData() (*types.PendingShareBundle, bool) {
	tool.DefaultLogger.Debugf("fetchSharedData()")
	p.mu.Lock()
	defer p.mu.Unlock()

	bundle, ok := p.store.FetchAndClear()
	if !ok {
		return nil, false
	}
	// merge bookkeeping stays internal
	bundle.MergedEventIDs = nil

	if p.notifier != nil {
		p.notifier.Broadcast(&types.Notification{
			Type:    types.NotifyTypeSharedDataCleared,
			Title:   "Shared Data",
			Message: "pending bundle fetched",
		})
	}
	return bundle, true
}

// HasPending reports whether a bundle is waiting to be fetched, without
// touching it.
func (p *Plugin) HasPending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.store.Load()
	return ok
}

// Exit asks the host to move to the background.
func (p *Plugin) Exit() error {
	tool.DefaultLogger.Debugf("exit()")
	return p.lifecycle.MoveTaskToBack()
}

// loadLaunchIntent reads the launch-intent file the native shell maintains.
// The event id is the content hash, so repeated init calls fold the same
// launch event exactly once.
func (p *Plugin) loadLaunchIntent() (*types.RawIntent, string, error) {
	if p.launchIntentPath == "" {
		return nil, "", fmt.Errorf("no launch intent path configured")
	}
	data, err := os.ReadFile(p.launchIntentPath)
	if err != nil {
		return nil, "", err
	}
	var in types.RawIntent
	if err := sonic.Unmarshal(data, &in); err != nil {
		return nil, "", fmt.Errorf("failed to parse launch intent: %v", err)
	}
	sum := sha256.Sum256(data)
	return &in, "launch-" + hex.EncodeToString(sum[:8]), nil
}
