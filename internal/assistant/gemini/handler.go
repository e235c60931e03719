// internal/assistant/gemini/handler.go
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "voice-assistant/internal/common/errors"
	httpclient "voice-assistant/internal/common/http"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/common/metrics"
)

const (
	TaskType = "gemini-completion"

	// DebugQuestion is the fixed probe sent by Debug.
	DebugQuestion = "What is 2+2?"

	maxLoggedBody = 200
)

type Handler struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		// no client timeout: the deadline comes from the context in execute
		client: httpclient.NewClient(0),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// NewHandlerWithClient is NewHandler with a caller supplied transport.
func NewHandlerWithClient(config *Config, client *httpclient.Client, log logger.Logger) *Handler {
	h := NewHandler(config, log)
	h.client = client
	return h
}

// Execute asks the provider to answer input.Question. Every failure comes
// back as a *errors.StandardError; callers treat any error as "no answer".
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.execute(ctx, input)
	outcome := "success"
	if err != nil {
		outcome = outcomeFor(err)
		h.logger.Error("Gemini request failed", map[string]interface{}{
			"error":    err,
			"outcome":  outcome,
			"question": truncate(input.Question, 50),
		})
	} else {
		h.logger.Info("Gemini response received", map[string]interface{}{
			"question": truncate(input.Question, 50),
		})
	}
	metrics.RemoteRequestsTotal.WithLabelValues(outcome).Inc()
	return output, err
}

// Generate is Execute for a bare question.
func (h *Handler) Generate(ctx context.Context, question string) (string, error) {
	out, err := h.Execute(ctx, &Input{Question: question})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if h.config.APIKey == "" {
		return nil, apperrors.NewRemoteNotConfiguredError()
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	resp, err := h.client.PostJSON(ctx, h.endpoint(true), h.buildRequest(input.Question))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewRemoteTimeoutError(h.config.Timeout)
		}
		return nil, apperrors.NewRemoteTransportFailureError(redact(err, h.config.APIKey))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewRemoteUnexpectedStatusError(resp.StatusCode, truncate(string(resp.Body), maxLoggedBody))
	}

	var apiResponse generateResponse
	if err := json.Unmarshal(resp.Body, &apiResponse); err != nil {
		return nil, apperrors.NewRemoteMalformedResponseError(fmt.Sprintf("decode error: %v", err))
	}

	text, err := firstCandidateText(apiResponse)
	if err != nil {
		return nil, err
	}
	return &Output{Text: text}, nil
}

func firstCandidateText(resp generateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", apperrors.NewRemoteMalformedResponseError("no candidates")
	}
	first := resp.Candidates[0]
	if first.Content == nil || len(first.Content.Parts) == 0 {
		return "", apperrors.NewRemoteMalformedResponseError("first candidate has no content parts")
	}
	text := strings.TrimSpace(first.Content.Parts[0].Text)
	if text == "" {
		return "", apperrors.NewRemoteMalformedResponseError("first candidate text is empty")
	}
	return text, nil
}

func (h *Handler) buildRequest(question string) *generateRequest {
	return &generateRequest{
		Contents: []content{{
			Parts: []part{{Text: h.config.Persona + question}},
		}},
		GenerationConfig: generationConfig{
			Temperature:     h.config.Temperature,
			TopK:            h.config.TopK,
			TopP:            h.config.TopP,
			MaxOutputTokens: h.config.MaxOutputTokens,
		},
	}
}

// endpoint returns the generateContent URL, with the key only when withKey.
func (h *Handler) endpoint(withKey bool) string {
	u := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(h.config.BaseURL, "/"), h.config.Model)
	if withKey {
		u += "?key=" + url.QueryEscape(h.config.APIKey)
	}
	return u
}

// Debug sends DebugQuestion and reports the configuration it ran with.
// The API key itself is never included.
func (h *Handler) Debug(ctx context.Context) *DebugReport {
	report := &DebugReport{
		APIKeyConfigured: h.config.APIKey != "",
		APIKeyLength:     len(h.config.APIKey),
		APIURL:           h.endpoint(false),
		TestQuestion:     DebugQuestion,
	}

	start := time.Now()
	text, err := h.Generate(ctx, DebugQuestion)
	if err != nil {
		report.Error = apperrors.AsStandardError(err).Error()
	} else {
		report.TestResponse = &text
	}

	h.logger.Info("Gemini debug probe finished", map[string]interface{}{
		"ok":       err == nil,
		"duration": time.Since(start).String(),
	})
	return report
}

func outcomeFor(err error) string {
	switch {
	case apperrors.HasCode(err, apperrors.ErrCodeRemoteNotConfigured):
		return "not_configured"
	case apperrors.HasCode(err, apperrors.ErrCodeRemoteTimeout):
		return "timeout"
	case apperrors.HasCode(err, apperrors.ErrCodeRemoteUnexpectedResponse):
		return "bad_status"
	case apperrors.HasCode(err, apperrors.ErrCodeRemoteMalformedResponse):
		return "malformed"
	default:
		return "transport_error"
	}
}

// redact strips the API key from errors that echo the request URL.
func redact(err error, key string) error {
	escaped := url.QueryEscape(key)
	if key == "" || !strings.Contains(err.Error(), escaped) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), escaped, "REDACTED"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
