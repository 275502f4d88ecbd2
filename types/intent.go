package types

// Raw intent actions as delivered by the Android shell, plus the canonical
// values handed to the web layer. Unknown actions pass through unchanged.
const (
	RawActionSend         = "android.intent.action.SEND"
	RawActionSendMultiple = "android.intent.action.SEND_MULTIPLE"
	RawActionView         = "android.intent.action.VIEW"

	ActionSend = "SEND"
	ActionView = "VIEW"
)

// ExtraExitOnSent is the extras key carrying the exit-after-share flag.
const ExtraExitOnSent = "exit_on_sent"

// ClipEntry is one clip-data entry: either a content reference or inline text.
type ClipEntry struct {
	URI  string `json:"uri,omitempty"`
	Text string `json:"text,omitempty"`
}

// RawIntent is the wire form of a share/view intent posted by the native
// shell (and stored as the launch-intent file). The three payload shapes
// mirror ClipData, EXTRA_STREAM and getData().
type RawIntent struct {
	Action    string         `json:"action"`
	ClipItems []ClipEntry    `json:"clipItems,omitempty"`
	Streams   []string       `json:"streams,omitempty"`
	Data      string         `json:"data,omitempty"`
	Extras    map[string]any `json:"extras,omitempty"`
}

// ExitOnSent reads the exit flag from the intent extras, defaulting to false.
func (in *RawIntent) ExitOnSent() bool {
	if in.Extras == nil {
		return false
	}
	v, ok := in.Extras[ExtraExitOnSent].(bool)
	return ok && v
}
