package controllers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wisdomgarden/openwith-go/plugin"
	"github.com/wisdomgarden/openwith-go/tool"
	"github.com/wisdomgarden/openwith-go/types"
)

// invalidAction is the generic rejection the web layer gets for a malformed
// command, matching the plugin result it has always handled.
const invalidAction = "invalidAction"

// CommandController serves the cordova-style execute surface.
type CommandController struct {
	plugin *plugin.Plugin
}

func NewCommandController(pl *plugin.Plugin) *CommandController {
	return &CommandController{plugin: pl}
}

// HandleExecute dispatches one bridge command.
// POST /api/openwith/v1/execute
func (ctl *CommandController) HandleExecute(c *gin.Context) {
	var request types.CommandRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	tool.DefaultLogger.Debugf("execute() called with action:%s and options: %v", request.Action, request.Args)

	switch request.Action {
	case types.CommandSetVerbosity:
		ctl.handleSetVerbosity(c, request.Args)
	case types.CommandInit:
		ctl.handleInit(c, request.Args)
	case types.CommandFetchSharedData:
		ctl.handleFetchSharedData(c, request.Args)
	case types.CommandExit:
		ctl.handleExit(c, request.Args)
	default:
		tool.DefaultLogger.Debugf("execute() did not recognize this action: %s", request.Action)
		c.JSON(http.StatusBadRequest, tool.FastReturnError(invalidAction))
	}
}

func (ctl *CommandController) handleSetVerbosity(c *gin.Context, args []any) {
	if len(args) != 1 {
		tool.DefaultLogger.Warnf("setVerbosity() -> %s", invalidAction)
		c.JSON(http.StatusBadRequest, tool.FastReturnError(invalidAction))
		return
	}
	level, ok := intArg(args[0])
	if !ok {
		tool.DefaultLogger.Warnf("setVerbosity() -> %s", invalidAction)
		c.JSON(http.StatusBadRequest, tool.FastReturnError(invalidAction))
		return
	}
	ctl.plugin.SetVerbosity(level)
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

func (ctl *CommandController) handleInit(c *gin.Context, args []any) {
	if len(args) != 0 {
		tool.DefaultLogger.Warnf("init() -> %s", invalidAction)
		c.JSON(http.StatusBadRequest, tool.FastReturnError(invalidAction))
		return
	}
	ctl.plugin.Init()
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

func (ctl *CommandController) handleFetchSharedData(c *gin.Context, args []any) {
	if len(args) != 0 {
		tool.DefaultLogger.Warnf("fetchSharedData() -> %s", invalidAction)
		c.JSON(http.StatusBadRequest, tool.FastReturnError(invalidAction))
		return
	}
	bundle, ok := ctl.plugin.FetchSharedData()
	if !ok {
		c.JSON(http.StatusOK, tool.FastReturnSuccess())
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(bundle))
}

func (ctl *CommandController) handleExit(c *gin.Context, args []any) {
	if len(args) != 0 {
		tool.DefaultLogger.Warnf("exit() -> %s", invalidAction)
		c.JSON(http.StatusBadRequest, tool.FastReturnError(invalidAction))
		return
	}
	if err := ctl.plugin.Exit(); err != nil {
		// backgrounding is best-effort, the command itself still succeeds
		tool.DefaultLogger.Warnf("exit() lifecycle request failed: %v", err)
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// intArg accepts the integer-valued numbers JSON decoding produces.
func intArg(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
