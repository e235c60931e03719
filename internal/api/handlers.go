// internal/api/handlers.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sahilm/fuzzy"

	"voice-assistant/internal/assistant"
	"voice-assistant/internal/assistant/gemini"
	"voice-assistant/internal/common/config"
	apperrors "voice-assistant/internal/common/errors"
	"voice-assistant/internal/common/logger"
)

const sampleIntentCount = 5

// RemoteDiagnostics runs the remote provider probe behind /debug-gemini.
type RemoteDiagnostics interface {
	Debug(ctx context.Context) *gemini.DebugReport
}

type Handlers struct {
	resolver *assistant.Resolver
	remote   RemoteDiagnostics
	app      config.AppConfig
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

// NewHandlers builds the HTTP handlers. remote may be nil, in which case
// /debug-gemini reports the provider as unconfigured.
func NewHandlers(resolver *assistant.Resolver, remote RemoteDiagnostics, app config.AppConfig, log logger.Logger) *Handlers {
	return &Handlers{
		resolver: resolver,
		remote:   remote,
		app:      app,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
}

func (h *Handlers) now() time.Time {
	return h.resolver.Formatter().Now()
}

// Ask answers a question. Every resolver outcome is a 200.
func (h *Handlers) Ask(c *gin.Context) {
	var q AskQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.errors.HandleHTTPError(c, apperrors.NewInvalidQuestionError(describeBindError(err)))
		return
	}

	res := h.resolver.Resolve(c.Request.Context(), q.Question)
	h.logger.Debug("question resolved", map[string]interface{}{
		"method":    res.Method,
		"score":     res.Match.Score,
		"requestID": c.GetString(requestIDKey),
	})
	c.JSON(http.StatusOK, res.Answer)
}

// ListIntents returns intent names in table order, or ranked by fuzzy
// similarity to ?filter= when given.
func (h *Handlers) ListIntents(c *gin.Context) {
	var q IntentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.errors.HandleHTTPError(c, apperrors.NewInvalidQuestionError(describeBindError(err)))
		return
	}

	names := h.resolver.Table().Names()
	if filter := strings.TrimSpace(q.Filter); filter != "" {
		matches := fuzzy.Find(filter, names)
		filtered := make([]string, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, m.Str)
		}
		names = filtered
	}

	c.JSON(http.StatusOK, IntentsResponse{
		Intents:     names,
		Count:       len(names),
		Description: IntentsDescription,
	})
}

func (h *Handlers) GetIntent(c *gin.Context) {
	name := c.Param("name")
	in, ok := h.resolver.Table().Lookup(name)
	if !ok {
		h.errors.HandleHTTPError(c, apperrors.NewIntentNotFoundError(name))
		return
	}

	questions := in.Questions
	if questions == nil {
		questions = []string{}
	}
	answer := ""
	if in.HasAnswer() {
		answer = *in.Answer
	}
	c.JSON(http.StatusOK, IntentResponse{
		Intent:       in.Name,
		Questions:    questions,
		Answer:       answer,
		Customizable: true,
	})
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().Format(time.RFC3339Nano),
		Version:   h.app.Version,
		Features:  h.app.Features,
	})
}

func (h *Handlers) Home(c *gin.Context) {
	c.JSON(http.StatusOK, HomeResponse{
		Message: BannerMessage,
		Version: h.app.Version,
		Endpoints: map[string]string{
			"/ask":          "Main chat endpoint",
			"/health":       "Health check",
			"/ping":         "Simple ping test",
			"/intents":      "List predefined intents",
			"/intent/:name": "Intent details",
		},
	})
}

func (h *Handlers) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339Nano),
	})
}

func (h *Handlers) DebugGemini(c *gin.Context) {
	names := h.resolver.Table().Names()
	if len(names) > sampleIntentCount {
		names = names[:sampleIntentCount]
	}

	resp := DebugResponse{
		Status:          "debug_info",
		ResponsesLoaded: h.resolver.Table().Len(),
		SampleIntents:   names,
		FallbackMessage: assistant.FallbackMessage,
	}
	if h.remote == nil {
		resp.Status = "debug_error"
		resp.DebugReport = &gemini.DebugReport{
			TestQuestion: gemini.DebugQuestion,
			Error:        apperrors.NewRemoteNotConfiguredError().Error(),
		}
	} else {
		resp.DebugReport = h.remote.Debug(c.Request.Context())
	}
	c.JSON(http.StatusOK, resp)
}

// describeBindError flattens validator errors into "field: rule" pairs.
func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s: field required", field))
		case "min":
			parts = append(parts, fmt.Sprintf("%s: ensure this value has at least %s characters", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s: ensure this value has at most %s characters", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
