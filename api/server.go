package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/wisdomgarden/openwith-go/api/controllers"
	"github.com/wisdomgarden/openwith-go/api/middlewares"
	"github.com/wisdomgarden/openwith-go/api/notifyhub"
	"github.com/wisdomgarden/openwith-go/plugin"
	"github.com/wisdomgarden/openwith-go/tool"
)

// Server is the localhost HTTP bridge between the hosted web view and the
// plugin.
type Server struct {
	port     int
	engine   *gin.Engine
	server   *http.Server
	plugin   *plugin.Plugin
	hub      *notifyhub.Hub
	ratePPS  int
	notifyWS bool
	mu       sync.RWMutex
}

// NewServer creates the bridge server. When notifyWS is set, a notify hub is
// created and attached to the plugin before the routes come up.
func NewServer(port int, pl *plugin.Plugin, ratePPS int, notifyWS bool) *Server {
	s := &Server{
		port:     port,
		plugin:   pl,
		ratePPS:  ratePPS,
		notifyWS: notifyWS,
	}
	if notifyWS {
		s.hub = notifyhub.New()
		pl.SetNotifier(s.hub)
	}
	return s
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	engine.Use(gin.Recovery())

	commandCtrl := controllers.NewCommandController(s.plugin)
	intentCtrl := controllers.NewIntentController(s.plugin, s.ratePPS)

	v1 := engine.Group("/api/openwith/v1", middlewares.OnlyAllowLocal)
	{
		v1.POST("/execute", commandCtrl.HandleExecute) // cordova-style {action, args}
		v1.POST("/intent", intentCtrl.HandleIntent)    // OS delivery shim
		v1.GET("/status", controllers.HandleStatus(s.plugin))
		v1.GET("/create-qr-code", controllers.GenerateQRCode) // QR for shared links
		if s.notifyWS && s.hub != nil {
			v1.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub))
		}
	}

	return engine
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: engine,
	}
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting bridge server on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}
