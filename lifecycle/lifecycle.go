package lifecycle

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/wisdomgarden/openwith-go/tool"
)

// Controller is the application-lifecycle control the exit command delegates
// to: ask the host to move the activity to the background.
type Controller interface {
	MoveTaskToBack() error
}

// SocketTimeout is the timeout for lifecycle socket operations.
const SocketTimeout = 3 * time.Second

type lifecycleMessage struct {
	Type string `json:"type"`
}

// SocketController talks to the native shell over a Unix domain socket using
// a 4-byte little-endian length prefix followed by the JSON payload.
type SocketController struct {
	socketPath string
}

func NewSocketController(socketPath string) *SocketController {
	return &SocketController{socketPath: socketPath}
}

func (c *SocketController) MoveTaskToBack() error {
	return c.send(&lifecycleMessage{Type: "move_to_background"})
}

func (c *SocketController) send(msg *lifecycleMessage) error {
	if _, err := os.Stat(c.socketPath); os.IsNotExist(err) {
		return fmt.Errorf("lifecycle socket not found: %s (is the host shell running?)", c.socketPath)
	}

	payload, err := sonic.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize lifecycle message: %v", err)
	}

	conn, err := net.DialTimeout("unix", c.socketPath, SocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to lifecycle socket %s: %v", c.socketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close lifecycle socket connection: %v", err)
		}
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(SocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set write deadline: %v", err)
	}

	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to lifecycle socket: %v", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload to lifecycle socket: %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(SocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set read deadline: %v", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read response from lifecycle socket: %v", err)
	}
	if n > 0 {
		var response map[string]any
		if err := sonic.Unmarshal(buf[:n], &response); err == nil {
			if errMsg, ok := response["error"].(string); ok && errMsg != "" {
				return fmt.Errorf("host shell returned error: %s", errMsg)
			}
		}
	}

	tool.DefaultLogger.Infof("[Lifecycle] Requested move to background")
	return nil
}

// LogController is a stand-in for headless runs with no host shell attached.
type LogController struct{}

func (LogController) MoveTaskToBack() error {
	tool.DefaultLogger.Infof("[Lifecycle] exit requested, no host shell attached")
	return nil
}
