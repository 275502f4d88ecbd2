package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wisdomgarden/openwith-go/intent"
	"github.com/wisdomgarden/openwith-go/lifecycle"
	"github.com/wisdomgarden/openwith-go/plugin"
	"github.com/wisdomgarden/openwith-go/resolver"
	"github.com/wisdomgarden/openwith-go/share"
	"github.com/wisdomgarden/openwith-go/types"
)

// setupRouter creates a test router with the bridge endpoints over an
// in-memory plugin.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	source := resolver.NewLocalSource(filepath.Join(dir, "registry.json"))
	r := resolver.New(source, dir, "/storage/emulated/0")
	extractor := intent.NewExtractor(r, 5)
	store := share.NewHandoffStore(share.NewMemoryKV())
	pl := plugin.New(extractor, store, lifecycle.LogController{}, 5, "")

	commandCtrl := NewCommandController(pl)
	intentCtrl := NewIntentController(pl, 0)

	router := gin.New()
	v1 := router.Group("/api/openwith/v1")
	{
		v1.POST("/execute", commandCtrl.HandleExecute)
		v1.POST("/intent", intentCtrl.HandleIntent)
		v1.GET("/status", HandleStatus(pl))
	}
	return router
}

func execute(t *testing.T, router *gin.Engine, action string, args []any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(types.CommandRequest{Action: action, Args: args})
	req, _ := http.NewRequest("POST", "/api/openwith/v1/execute", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postIntent(t *testing.T, router *gin.Engine, in *types.RawIntent) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(in)
	req, _ := http.NewRequest("POST", "/api/openwith/v1/intent", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetVerbosityArgValidation(t *testing.T) {
	router := setupRouter(t)

	if w := execute(t, router, types.CommandSetVerbosity, []any{0}); w.Code != http.StatusOK {
		t.Errorf("one integer argument should succeed, got %d", w.Code)
	}
	if w := execute(t, router, types.CommandSetVerbosity, []any{0, 10}); w.Code != http.StatusBadRequest {
		t.Errorf("two arguments should be rejected, got %d", w.Code)
	}
	if w := execute(t, router, types.CommandSetVerbosity, []any{}); w.Code != http.StatusBadRequest {
		t.Errorf("zero arguments should be rejected, got %d", w.Code)
	}
	if w := execute(t, router, types.CommandSetVerbosity, []any{"loud"}); w.Code != http.StatusBadRequest {
		t.Errorf("non-integer argument should be rejected, got %d", w.Code)
	}
	if w := execute(t, router, types.CommandSetVerbosity, []any{1.5}); w.Code != http.StatusBadRequest {
		t.Errorf("fractional argument should be rejected, got %d", w.Code)
	}
}

func TestZeroArgCommandsRejectArguments(t *testing.T) {
	router := setupRouter(t)

	for _, action := range []string{types.CommandInit, types.CommandFetchSharedData, types.CommandExit} {
		if w := execute(t, router, action, []any{"extra"}); w.Code != http.StatusBadRequest {
			t.Errorf("%s with an argument should be rejected, got %d", action, w.Code)
		}
	}
}

func TestUnknownActionRejected(t *testing.T) {
	router := setupRouter(t)

	if w := execute(t, router, "selfDestruct", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown action should be rejected, got %d", w.Code)
	}
}

func TestIntentThenFetchSharedData(t *testing.T) {
	router := setupRouter(t)

	w := postIntent(t, router, &types.RawIntent{
		Action:    types.RawActionSend,
		ClipItems: []types.ClipEntry{{Text: "hello"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("intent delivery failed: %d %s", w.Code, w.Body.String())
	}

	w = execute(t, router, types.CommandFetchSharedData, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fetch failed: %d", w.Code)
	}
	var response struct {
		Data *types.PendingShareBundle `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Data == nil {
		t.Fatalf("response should carry the bundle: %s", w.Body.String())
	}
	if response.Data.Action != types.ActionSend || len(response.Data.Items) != 1 ||
		response.Data.Items[0].Text != "hello" {
		t.Errorf("unexpected bundle: %+v", response.Data)
	}

	// destructive fetch: second call returns the empty ack
	w = execute(t, router, types.CommandFetchSharedData, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("second fetch failed: %d", w.Code)
	}
	var ack map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &ack); err != nil {
		t.Fatalf("failed to parse ack: %v", err)
	}
	if _, hasData := ack["data"]; hasData {
		t.Errorf("second fetch should be an empty ack, got %s", w.Body.String())
	}
}

func TestInitAndExit(t *testing.T) {
	router := setupRouter(t)

	if w := execute(t, router, types.CommandInit, nil); w.Code != http.StatusOK {
		t.Errorf("init should succeed, got %d", w.Code)
	}
	if w := execute(t, router, types.CommandExit, nil); w.Code != http.StatusOK {
		t.Errorf("exit should succeed, got %d", w.Code)
	}
}

func TestStatusReportsPendingBundle(t *testing.T) {
	router := setupRouter(t)

	req, _ := http.NewRequest("GET", "/api/openwith/v1/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status failed: %d", w.Code)
	}
	var response struct {
		Data struct {
			Running            bool `json:"running"`
			PendingSharedData  bool `json:"pendingSharedData"`
			MaxAttachmentCount int  `json:"maxAttachmentCount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !response.Data.Running || response.Data.PendingSharedData || response.Data.MaxAttachmentCount != 5 {
		t.Errorf("unexpected status: %+v", response.Data)
	}

	postIntent(t, router, &types.RawIntent{
		Action:    types.RawActionSend,
		ClipItems: []types.ClipEntry{{Text: "pending"}},
	})

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !response.Data.PendingSharedData {
		t.Error("status should report the pending bundle")
	}
}
