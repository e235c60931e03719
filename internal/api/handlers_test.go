package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/internal/assistant"
	"voice-assistant/internal/assistant/gemini"
	"voice-assistant/internal/common/config"
	"voice-assistant/internal/common/logger"
	"voice-assistant/pkg/registry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==========================
// Test Doubles
// ==========================

type stubRemote struct {
	text string
	err  error
}

func (s *stubRemote) Generate(ctx context.Context, question string) (string, error) {
	return s.text, s.err
}

func (s *stubRemote) Debug(ctx context.Context) *gemini.DebugReport {
	report := &gemini.DebugReport{
		APIKeyConfigured: true,
		APIKeyLength:     8,
		APIURL:           "http://gemini.test/models/m:generateContent",
		TestQuestion:     gemini.DebugQuestion,
	}
	if s.err != nil {
		report.Error = s.err.Error()
	} else {
		text := s.text
		report.TestResponse = &text
	}
	return report
}

// ==========================
// Test Helper Functions
// ==========================

func strPtr(s string) *string { return &s }

func createTestTable() *registry.IntentTable {
	return registry.NewIntentTable(
		registry.Intent{Name: "greeting", Questions: []string{"hello", "hi"}, Answer: strPtr("Hello there!")},
		registry.Intent{Name: "time", Questions: []string{"what time is it"}, Answer: strPtr("TIME")},
		registry.Intent{Name: "goodbye", Questions: []string{"bye"}, Answer: strPtr("Goodbye!")},
		registry.Intent{Name: "greeting_evening", Questions: []string{"good evening"}, Answer: strPtr("Good evening!")},
		registry.Intent{Name: "weather", Questions: []string{"how is the weather"}, Answer: strPtr("Look outside.")},
		registry.Intent{Name: "broken", Questions: []string{"broken entry"}},
	)
}

func createTestApp() config.AppConfig {
	return config.AppConfig{
		Name:     "test",
		Version:  "2.0.0",
		Features: []string{"gemini_ai", "predefined_responses"},
	}
}

func newTestRouter(t *testing.T, remote *stubRemote) *gin.Engine {
	log := logger.NewTestLogger(t)
	var fallback assistant.RemoteFallback
	var diagnostics RemoteDiagnostics
	if remote != nil {
		fallback = remote
		diagnostics = remote
	}
	resolver := assistant.NewResolver(assistant.LoadConfig(), createTestTable(), fallback, log, nil)
	handlers := NewHandlers(resolver, diagnostics, createTestApp(), log)
	return NewRouter(handlers, log, RouterOptions{ServiceName: "test", MetricsEnabled: true})
}

func doGet(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func askURL(question string) string {
	return "/ask?question=" + url.QueryEscape(question)
}

// ==========================
// /ask
// ==========================

func TestAsk_Predefined(t *testing.T) {
	router := newTestRouter(t, &stubRemote{text: "unused"})

	w := doGet(t, router, askURL("Hello!"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"answer":"Hello there!","type":"predefined","source":"predefined","intent":"greeting"}`, w.Body.String())
}

func TestAsk_Time(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, askURL("what time is it?"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "time_india", body["type"])
	assert.Contains(t, body["answer"], "The current time in India is")
}

func TestAsk_Fuzzy(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, askURL("helo"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "greeting", decode(t, w)["intent"])
}

func TestAsk_Remote(t *testing.T) {
	router := newTestRouter(t, &stubRemote{text: "Entanglement correlates particles."})

	w := doGet(t, router, askURL("explain quantum entanglement"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"answer":"Entanglement correlates particles.","type":"ai_generated","source":"gemini"}`, w.Body.String())
}

func TestAsk_Fallback(t *testing.T) {
	router := newTestRouter(t, &stubRemote{err: assert.AnError})

	w := doGet(t, router, askURL("explain quantum entanglement"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "fallback", body["type"])
	assert.Equal(t, assistant.FallbackMessage, body["answer"])
}

func TestAsk_MalformedIntent(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, askURL("broken entry"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "error", body["type"])
	assert.Equal(t, "system", body["source"])
}

func TestAsk_Validation(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"missing", "/ask", "field required"},
		{"empty", "/ask?question=", "field required"},
		{"too long", askURL(strings.Repeat("a", 501)), "at most 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(t, router, tt.target)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			body := decode(t, w)
			assert.Equal(t, "INVALID_QUESTION", body["code"])
			assert.Contains(t, body["details"], tt.want)
		})
	}
}

func TestAsk_LengthCountsCharacters(t *testing.T) {
	router := newTestRouter(t, &stubRemote{err: assert.AnError})

	w := doGet(t, router, askURL(strings.Repeat("é", 500)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(t, router, askURL("x"))
	assert.Equal(t, http.StatusOK, w.Code)
}

// ==========================
// /intents and /intent/:name
// ==========================

func TestListIntents(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/intents")
	require.Equal(t, http.StatusOK, w.Code)

	var resp IntentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"greeting", "time", "goodbye", "greeting_evening", "weather", "broken"}, resp.Intents)
	assert.Equal(t, 6, resp.Count)
	assert.Equal(t, IntentsDescription, resp.Description)
}

func TestListIntents_Filter(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/intents?filter=greet")
	require.Equal(t, http.StatusOK, w.Code)

	var resp IntentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"greeting", "greeting_evening"}, resp.Intents)
	assert.Equal(t, 2, resp.Count)
}

func TestGetIntent(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/intent/greeting")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"intent":"greeting","questions":["hello","hi"],"answer":"Hello there!","customizable":true}`, w.Body.String())

	w = doGet(t, router, "/intent/broken")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode(t, w)["answer"])
}

func TestGetIntent_NotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/intent/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Intent not found", body["detail"])
	assert.Equal(t, "INTENT_NOT_FOUND", body["code"])
}

// ==========================
// Probes
// ==========================

func TestHealth(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "2.0.0", resp.Version)
	assert.Equal(t, []string{"gemini_ai", "predefined_responses"}, resp.Features)

	ts, err := time.Parse(time.RFC3339Nano, resp.Timestamp)
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, 330*60, offset)
}

func TestHomeAndPing(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, BannerMessage, body["message"])
	assert.Contains(t, body["endpoints"], "/ask")

	w = doGet(t, router, "/ping")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w)["message"])
}

func TestDebugGemini(t *testing.T) {
	router := newTestRouter(t, &stubRemote{text: "4"})

	w := doGet(t, router, "/debug-gemini")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "debug_info", body["status"])
	assert.Equal(t, true, body["api_key_configured"])
	assert.Equal(t, "4", body["test_response"])
	assert.Equal(t, float64(6), body["responses_loaded"])
	assert.Len(t, body["sample_intents"], 5)
	assert.Equal(t, assistant.FallbackMessage, body["fallback_message"])
}

func TestDebugGemini_NoRemote(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/debug-gemini")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "debug_error", body["status"])
	assert.Equal(t, false, body["api_key_configured"])
	assert.Nil(t, body["test_response"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)
	doGet(t, router, askURL("hello"))

	w := doGet(t, router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "assistant_questions_total")
}

// ==========================
// Middleware
// ==========================

func TestRequestID(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(t, router, "/ping")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	log := logger.NewTestLogger(t)
	router := NewRouter(
		NewHandlers(assistant.NewResolver(nil, nil, nil, log, nil), nil, createTestApp(), log),
		log,
		RouterOptions{},
	)
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := doGet(t, router, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode(t, w)["code"])
}
