package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	apperrors "voice-assistant/internal/common/errors"
	"voice-assistant/internal/common/logger"
)

type RouterOptions struct {
	ServiceName    string
	MetricsEnabled bool
	// TracerProvider feeds otelgin; nil disables HTTP tracing.
	TracerProvider trace.TracerProvider
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(h *Handlers, log logger.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(apperrors.NewErrorHandler(log)))
	router.Use(RequestID())
	if opts.TracerProvider != nil {
		router.Use(otelgin.Middleware(opts.ServiceName, otelgin.WithTracerProvider(opts.TracerProvider)))
	}
	router.Use(AccessLog(log))
	router.Use(CORS())

	RegisterRoutes(router, h)

	if opts.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	return router
}

func RegisterRoutes(r gin.IRoutes, h *Handlers) {
	r.GET("/", h.Home)
	r.GET("/ping", h.Ping)
	r.GET("/health", h.Health)
	r.GET("/ask", h.Ask)
	r.GET("/intents", h.ListIntents)
	r.GET("/intent/:name", h.GetIntent)
	r.GET("/debug-gemini", h.DebugGemini)
}
