package share

import (
	"path/filepath"
	"testing"

	"github.com/wisdomgarden/openwith-go/types"
)

func testBundle() *types.PendingShareBundle {
	return &types.PendingShareBundle{
		Action:             types.ActionSend,
		Items:              []types.ShareItem{{Type: "text/plain", Name: "text", Text: "hi"}},
		ReceivedCounts:     1,
		MaxAttachmentCount: 5,
		MergedEventIDs:     []string{"ev-1"},
	}
}

func TestFetchAndClearIsDestructive(t *testing.T) {
	store := NewHandoffStore(NewMemoryKV())
	store.Put(testBundle())

	bundle, ok := store.FetchAndClear()
	if !ok {
		t.Fatal("first fetch should return the bundle")
	}
	if bundle.Action != types.ActionSend || len(bundle.Items) != 1 || bundle.Items[0].Text != "hi" {
		t.Errorf("bundle did not round-trip: %+v", bundle)
	}
	if !bundle.HasMerged("ev-1") {
		t.Error("merge bookkeeping should survive the round trip")
	}

	if _, ok := store.FetchAndClear(); ok {
		t.Error("second fetch should return absent")
	}
}

func TestLoadDoesNotClear(t *testing.T) {
	store := NewHandoffStore(NewMemoryKV())
	store.Put(testBundle())

	if _, ok := store.Load(); !ok {
		t.Fatal("load should see the bundle")
	}
	if _, ok := store.Load(); !ok {
		t.Error("load must not clear the record")
	}
}

func TestUnparsableRecordTreatedAsAbsent(t *testing.T) {
	kv := NewMemoryKV()
	if err := kv.Set(SavedKey, "{not json"); err != nil {
		t.Fatalf("failed to seed garbage: %v", err)
	}
	store := NewHandoffStore(kv)

	if _, ok := store.FetchAndClear(); ok {
		t.Error("garbage record should read as absent")
	}
	if _, found, _ := kv.Get(SavedKey); found {
		t.Error("fetch should clear the record even when unparsable")
	}
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "openwith.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	defer kv.Close()

	if _, found, err := kv.Get("missing"); err != nil || found {
		t.Errorf("missing key should be absent without error, found=%v err=%v", found, err)
	}
	if err := kv.Set("k", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := kv.Set("k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	v, found, err := kv.Get("k")
	if err != nil || !found || v != "v2" {
		t.Errorf("unexpected read: v=%q found=%v err=%v", v, found, err)
	}
	if err := kv.Delete("k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found, _ := kv.Get("k"); found {
		t.Error("deleted key should be absent")
	}
}

func TestHandoffStoreOverSQLite(t *testing.T) {
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "openwith.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	defer kv.Close()
	store := NewHandoffStore(kv)

	store.Put(testBundle())
	bundle, ok := store.FetchAndClear()
	if !ok || bundle.ReceivedCounts != 1 {
		t.Fatalf("bundle did not survive sqlite round trip: ok=%v %+v", ok, bundle)
	}
	if _, ok := store.FetchAndClear(); ok {
		t.Error("second fetch should return absent")
	}
}
