package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wisdomgarden/openwith-go/plugin"
	"github.com/wisdomgarden/openwith-go/tool"
)

// HandleStatus reports bridge state for the web UI.
// GET /api/openwith/v1/status
func HandleStatus(pl *plugin.Plugin) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
			"running":            true,
			"pendingSharedData":  pl.HasPending(),
			"maxAttachmentCount": pl.MaxAttachmentCount(),
		}))
	}
}
