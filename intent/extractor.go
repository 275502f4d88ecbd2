package intent

import (
	"github.com/google/uuid"

	"github.com/wisdomgarden/openwith-go/resolver"
	"github.com/wisdomgarden/openwith-go/tool"
	"github.com/wisdomgarden/openwith-go/types"
)

// Extractor normalizes raw intents into ShareEvents. The three payload
// shapes are tried in fixed priority order; the first one that yields a
// usable item wins.
type Extractor struct {
	resolver *resolver.Resolver
	maxCount int
}

func NewExtractor(r *resolver.Resolver, maxCount int) *Extractor {
	if maxCount <= 0 {
		maxCount = tool.DefaultMaxAttachmentCount
	}
	return &Extractor{resolver: r, maxCount: maxCount}
}

// Extract converts one raw intent. The bool result is false when the intent
// carries nothing shareable, which is not an error.
func (e *Extractor) Extract(in *types.RawIntent) (types.ShareEvent, bool) {
	if in == nil {
		return types.ShareEvent{}, false
	}

	items, rawCount := e.fromClipData(in.ClipItems)
	if len(items) == 0 {
		items, rawCount = e.fromStreams(in.Streams)
	}
	if len(items) == 0 {
		items, rawCount = e.fromData(in.Data)
	}
	if len(items) == 0 {
		tool.DefaultLogger.Debugf("[Extractor] Nothing shareable in %s intent", in.Action)
		return types.ShareEvent{}, false
	}

	if len(items) > e.maxCount {
		items = items[:e.maxCount]
	}

	return types.ShareEvent{
		ID:           uuid.NewString(),
		Action:       TranslateAction(in.Action),
		ExitOnSent:   in.ExitOnSent(),
		Items:        items,
		RawItemCount: rawCount,
	}, true
}

// fromClipData handles clip entries: content references resolve through the
// path resolver, inline text bypasses it entirely.
func (e *Extractor) fromClipData(entries []types.ClipEntry) ([]types.ShareItem, int) {
	items := make([]types.ShareItem, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.URI != "":
			if item, ok := e.resolveItem(entry.URI); ok {
				items = append(items, item)
			}
		case entry.Text != "":
			items = append(items, types.ShareItem{
				Type: "text/plain",
				Name: "text",
				Text: entry.Text,
			})
		}
	}
	return items, len(entries)
}

func (e *Extractor) fromStreams(uris []string) ([]types.ShareItem, int) {
	items := make([]types.ShareItem, 0, len(uris))
	for _, u := range uris {
		if item, ok := e.resolveItem(u); ok {
			items = append(items, item)
		}
	}
	return items, len(uris)
}

func (e *Extractor) fromData(rawURI string) ([]types.ShareItem, int) {
	if rawURI == "" {
		return nil, 0
	}
	item, ok := e.resolveItem(rawURI)
	if !ok {
		return nil, 1
	}
	return []types.ShareItem{item}, 1
}

// resolveItem builds the item record for a content reference. Unresolvable
// references are dropped silently, never aborting the rest of the intent.
func (e *Extractor) resolveItem(rawURI string) (types.ShareItem, bool) {
	res, ok := e.resolver.Resolve(rawURI)
	if !ok {
		tool.DefaultLogger.Debugf("[Extractor] Dropping unresolvable reference %q", rawURI)
		return types.ShareItem{}, false
	}
	return types.ShareItem{
		Type:   e.resolver.ContentType(rawURI),
		URI:    rawURI,
		Path:   res.Path,
		Name:   res.DisplayName,
		IsTemp: res.IsTemp,
	}, true
}

// TranslateAction maps raw intent actions to the canonical values the web
// layer expects; unknown actions pass through unchanged.
func TranslateAction(action string) string {
	switch action {
	case types.RawActionSend, types.RawActionSendMultiple:
		return types.ActionSend
	case types.RawActionView:
		return types.ActionView
	}
	return action
}
