package types

// ShareItem is one shared attachment or text fragment, in the JSON shape the
// web layer consumes.
type ShareItem struct {
	Type   string `json:"type"`
	URI    string `json:"uri"`
	Path   string `json:"path"`
	Name   string `json:"name"`
	IsTemp bool   `json:"isTemp"`
	// Text is set for plain-text clip entries only.
	Text string `json:"text,omitempty"`
}

// ShareEvent is one inbound intent after extraction, before merging.
type ShareEvent struct {
	// ID identifies the event for merge idempotence; folding the same ID
	// twice is a no-op.
	ID         string      `json:"id"`
	Action     string      `json:"action"`
	ExitOnSent bool        `json:"exit"`
	Items      []ShareItem `json:"items"`
	// RawItemCount is the candidate count before drop-filtering and the
	// attachment cap, so consumers can detect "5 of 12 shown".
	RawItemCount int `json:"rawItemCount"`
}

// PendingShareBundle is the coalesced payload persisted between intent
// delivery and fetchSharedData. Field names match the record the web layer
// has always read.
type PendingShareBundle struct {
	Action             string      `json:"action"`
	Exit               bool        `json:"exit"`
	Items              []ShareItem `json:"items"`
	ReceivedCounts     int         `json:"receivedCounts"`
	MaxAttachmentCount int         `json:"maxAttachmentCount"`
	MergedEventIDs     []string    `json:"mergedEventIds,omitempty"`
}

// HasMerged reports whether the event id has already been folded into the bundle.
func (b *PendingShareBundle) HasMerged(eventID string) bool {
	for _, id := range b.MergedEventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

// PathResolution is the resolver's output for a resolvable content reference.
type PathResolution struct {
	Path        string
	DisplayName string
	IsTemp      bool
}
