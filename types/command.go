package types

// Command actions accepted by the execute endpoint, matching the plugin's
// javascript side.
const (
	CommandSetVerbosity    = "setVerbosity"
	CommandInit            = "init"
	CommandFetchSharedData = "fetchSharedData"
	CommandExit            = "exit"
)

// CommandRequest mirrors cordova.exec: an action name plus a positional
// argument array.
type CommandRequest struct {
	Action string `json:"action"`
	Args   []any  `json:"args"`
}
