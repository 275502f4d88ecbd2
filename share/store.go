package share

import (
	"github.com/bytedance/sonic"

	"github.com/wisdomgarden/openwith-go/tool"
	"github.com/wisdomgarden/openwith-go/types"
)

// SavedKey is the fixed record key the serialized bundle lives under.
const SavedKey = "sharedData"

// KV is the injected durable string store.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	Delete(key string) error
	Close() error
}

// HandoffStore persists the pending bundle between intent delivery and the
// web layer's fetch.
type HandoffStore struct {
	kv KV
}

func NewHandoffStore(kv KV) *HandoffStore {
	return &HandoffStore{kv: kv}
}

// Put writes the bundle best-effort. A failed write loses at most one merge,
// which is accepted for this record.
func (s *HandoffStore) Put(bundle *types.PendingShareBundle) {
	if bundle == nil {
		return
	}
	payload, err := sonic.Marshal(bundle)
	if err != nil {
		tool.DefaultLogger.Warnf("[Store] Failed to serialize pending bundle: %v", err)
		return
	}
	if err := s.kv.Set(SavedKey, string(payload)); err != nil {
		tool.DefaultLogger.Warnf("[Store] Failed to persist pending bundle: %v", err)
	}
}

// Load reads the stored bundle without clearing it. A missing or unparsable
// record is indistinguishable from "nothing shared".
func (s *HandoffStore) Load() (*types.PendingShareBundle, bool) {
	raw, ok, err := s.kv.Get(SavedKey)
	if err != nil || !ok {
		return nil, false
	}
	var bundle types.PendingShareBundle
	if err := sonic.Unmarshal([]byte(raw), &bundle); err != nil {
		tool.DefaultLogger.Warnf("[Store] Stored record is unparsable, treating as absent: %v", err)
		return nil, false
	}
	return &bundle, true
}

// FetchAndClear reads the bundle and unconditionally removes the record, so
// a second fetch in a row returns absent.
func (s *HandoffStore) FetchAndClear() (*types.PendingShareBundle, bool) {
	bundle, ok := s.Load()
	if err := s.kv.Delete(SavedKey); err != nil {
		tool.DefaultLogger.Warnf("[Store] Failed to clear pending bundle: %v", err)
	}
	return bundle, ok
}
