package types

// Notification event types pushed to the web layer over the notify websocket.
const (
	NotifyTypeSharedDataUpdated = "shared_data_updated"
	NotifyTypeSharedDataCleared = "shared_data_cleared"
)

// Notification is the payload broadcast to notify websocket clients.
type Notification struct {
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}
