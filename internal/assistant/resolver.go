// internal/assistant/resolver.go
package assistant

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/common/metrics"
	"voice-assistant/internal/common/observability"
	"voice-assistant/pkg/registry"
)

// RemoteFallback answers questions the intent table cannot. Any error means
// "no answer".
type RemoteFallback interface {
	Generate(ctx context.Context, question string) (string, error)
}

// Resolution methods, used as metric labels.
const (
	resolvedExact    = "exact"
	resolvedFuzzy    = "fuzzy"
	resolvedRemote   = "remote"
	resolvedFallback = "fallback"
	resolvedError    = "error"
)

type Resolver struct {
	config    *Config
	table     *registry.IntentTable
	remote    RemoteFallback
	formatter *Formatter
	logger    logger.Logger
	obs       *observability.Observability
}

// NewResolver wires the pipeline. remote and obs may be nil.
func NewResolver(cfg *Config, table *registry.IntentTable, remote RemoteFallback, log logger.Logger, obs *observability.Observability) *Resolver {
	if cfg == nil {
		cfg = LoadConfig()
	}
	if table == nil {
		table = registry.Empty()
	}
	if obs == nil {
		obs = observability.NewNoop()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	metrics.IntentsLoaded.Set(float64(table.Len()))
	return &Resolver{
		config:    cfg,
		table:     table,
		remote:    remote,
		formatter: NewFormatter(cfg.Location),
		logger:    log,
		obs:       obs,
	}
}

// WithFormatter replaces the answer formatter, e.g. to pin the clock.
func (r *Resolver) WithFormatter(f *Formatter) *Resolver {
	r.formatter = f
	return r
}

func (r *Resolver) Table() *registry.IntentTable {
	return r.table
}

func (r *Resolver) Formatter() *Formatter {
	return r.formatter
}

// Ask resolves question and returns only the answer.
func (r *Resolver) Ask(ctx context.Context, question string) Answer {
	return r.Resolve(ctx, question).Answer
}

// Resolve runs START -> EXACT_CHECK -> FUZZY_CHECK -> REMOTE_CHECK -> RESPOND,
// stopping at the first step that produces an answer. It never fails: a
// panic anywhere below is turned into the technical-difficulties answer.
func (r *Resolver) Resolve(ctx context.Context, question string) (res *Resolution) {
	start := time.Now()
	res = &Resolution{
		Match:  MatchResult{Method: MethodNone},
		States: []State{StateStart},
	}

	ctx, span := r.obs.StartSpan(ctx, "assistant.resolve")
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Unexpected error resolving question", map[string]interface{}{
				"panic":    fmt.Sprint(rec),
				"question": question,
			})
			span.SetStatus(codes.Error, fmt.Sprint(rec))
			res.Answer = Answer{Answer: TechnicalErrorMessage, Type: TypeError}
			res.Method = resolvedError
		}
		res.States = append(res.States, StateRespond)
		res.Duration = time.Since(start)
		r.record(ctx, res)
		span.SetAttributes(
			attribute.String("assistant.method", res.Method),
			attribute.String("assistant.answer_type", string(res.Answer.Type)),
			attribute.Int("assistant.match_score", res.Match.Score),
		)
	}()

	r.logger.Info("Question received", map[string]interface{}{"question": question})
	query := Normalize(question)

	res.States = append(res.States, StateExactCheck)
	if m := ExactMatch(query, r.table); m.Matched() {
		r.logger.Info("Exact match found", map[string]interface{}{"intent": m.Intent.Name})
		res.Match = m
		res.Answer = r.format(*m.Intent)
		res.Method = resolvedExact
		return res
	}

	res.States = append(res.States, StateFuzzyCheck)
	m := FuzzyMatch(query, r.table, r.config.FuzzyThreshold)
	res.Match = m
	if m.Matched() {
		r.logger.Info("Fuzzy match found", map[string]interface{}{
			"intent": m.Intent.Name,
			"score":  m.Score,
		})
		res.Answer = r.format(*m.Intent)
		res.Method = resolvedFuzzy
		return res
	}

	res.States = append(res.States, StateRemoteCheck)
	if text, ok := r.askRemote(ctx, question); ok {
		res.Answer = Answer{Answer: text, Type: TypeAIGenerated, Source: SourceGemini}
		res.Method = resolvedRemote
		return res
	}

	r.logger.Warn("No response available", map[string]interface{}{"question": question})
	res.Answer = Answer{Answer: FallbackMessage, Type: TypeFallback, Source: SourceSystem}
	res.Method = resolvedFallback
	return res
}

func (r *Resolver) format(in registry.Intent) Answer {
	answer, err := r.formatter.Format(in)
	if err != nil {
		r.logger.WithError(err).Error("Error processing predefined answer", map[string]interface{}{
			"intent": in.Name,
		})
	}
	return answer
}

func (r *Resolver) askRemote(ctx context.Context, question string) (string, bool) {
	if r.remote == nil {
		return "", false
	}
	ctx, span := r.obs.StartSpan(ctx, "assistant.remote")
	defer span.End()

	text, err := r.remote.Generate(ctx, question)
	if err != nil {
		span.RecordError(err)
		return "", false
	}
	if text == "" {
		return "", false
	}
	return text, true
}

func (r *Resolver) record(ctx context.Context, res *Resolution) {
	metrics.QuestionsTotal.WithLabelValues(res.Method).Inc()
	metrics.AnswersTotal.WithLabelValues(string(res.Answer.Type)).Inc()
	metrics.ResolveDuration.WithLabelValues(res.Method).Observe(res.Duration.Seconds())
	r.obs.RecordQuestionProcessed(ctx, res.Method, string(res.Answer.Type))
	r.obs.RecordQuestionDuration(ctx, res.Duration, res.Method)
}
