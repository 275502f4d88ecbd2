package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/wisdomgarden/openwith-go/plugin"
	"github.com/wisdomgarden/openwith-go/tool"
	"github.com/wisdomgarden/openwith-go/types"
)

// IntentController receives raw intents from the OS delivery shim.
type IntentController struct {
	plugin  *plugin.Plugin
	limiter *rate.Limiter
}

// NewIntentController creates the controller. ratePPS <= 0 disables the
// ingest limiter.
func NewIntentController(pl *plugin.Plugin, ratePPS int) *IntentController {
	var limiter *rate.Limiter
	if ratePPS > 0 {
		burst := ratePPS + 10
		if burst < 20 {
			burst = 20
		}
		limiter = rate.NewLimiter(rate.Limit(ratePPS), burst)
	}
	return &IntentController{plugin: pl, limiter: limiter}
}

// HandleIntent accepts one raw intent and folds it into the pending bundle.
// POST /api/openwith/v1/intent
func (ctl *IntentController) HandleIntent(c *gin.Context) {
	if ctl.limiter != nil && !ctl.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, tool.FastReturnError("intent rate exceeded"))
		return
	}

	var in types.RawIntent
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	ctl.plugin.OnNewIntent(&in)
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
