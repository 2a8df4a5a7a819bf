package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Kele901/career-projector/internal/logger"
	"github.com/Kele901/career-projector/internal/models"
)

const (
	excerptRunes    = 1000
	promptSkills    = 20
	promptPathways  = 5
	enhanceTimeout  = 30 * time.Second
	rawInsightField = "raw_insight"

	// Gemini free tier allows roughly 15 requests per minute
	requestDelay = 4 * time.Second
	maxRetries   = 3
	retryBackoff = 10 * time.Second
)

// Enhancer annotates the top recommendation with model-generated career insight
type Enhancer struct {
	gen     Generator
	logger  *slog.Logger
	timeout time.Duration

	requestDelay time.Duration
	maxRetries   int
	retryBackoff time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

// EnhancerOption customizes an Enhancer
type EnhancerOption func(*Enhancer)

// WithRetry sets how often a rate-limited request is retried and the base backoff
func WithRetry(retries int, backoff time.Duration) EnhancerOption {
	return func(e *Enhancer) {
		e.maxRetries = max(retries, 0)
		e.retryBackoff = backoff
	}
}

// WithRequestDelay sets the minimum spacing between model requests
func WithRequestDelay(d time.Duration) EnhancerOption {
	return func(e *Enhancer) { e.requestDelay = d }
}

// NewEnhancer creates an enhancer. A nil generator disables enhancement.
func NewEnhancer(gen Generator, l *slog.Logger, opts ...EnhancerOption) *Enhancer {
	e := &Enhancer{
		gen:          gen,
		logger:       logger.OrDefault(l),
		timeout:      enhanceTimeout,
		requestDelay: requestDelay,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enabled reports whether a generator is configured
func (e *Enhancer) Enabled() bool {
	return e != nil && e.gen != nil
}

// Enhance returns recs with ai_insight and is_ai_enhanced set on the first entry. When the
// enhancer is disabled, the list is empty or the model call fails, recs is returned as is.
// The input slice is never modified.
func (e *Enhancer) Enhance(ctx context.Context, text string, skills []models.SkillRecord, recs []models.Recommendation) (out []models.Recommendation) {
	if !e.Enabled() || len(recs) == 0 {
		return recs
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("AI enhancement panicked", "panic", r)
			out = recs
		}
	}()

	response, err := e.generate(ctx, buildPrompt(text, skills, recs))
	if err != nil {
		e.logger.Warn("AI enhancement failed, using base recommendations", "error", err)
		return recs
	}

	insight, err := parseInsight(response)
	if err != nil {
		e.logger.Warn("AI enhancement returned no usable insight", "error", err)
		return recs
	}

	out = make([]models.Recommendation, len(recs))
	copy(out, recs)
	out[0].AIInsight = insight
	out[0].IsAIEnhanced = true

	e.logger.Debug("AI enhancement applied", "pathway", out[0].Pathway)
	return out
}

// generate calls the model, pacing requests and retrying rate-limit failures with a
// linearly growing backoff. Each attempt gets its own timeout.
func (e *Enhancer) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			wait := e.retryBackoff * time.Duration(attempt)
			e.logger.Warn("rate limited by model, retrying", "attempt", attempt, "wait", wait)
			if err := sleep(ctx, wait); err != nil {
				return "", err
			}
		}
		if err := e.pace(ctx); err != nil {
			return "", err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
		response, err := e.gen.GenerateContent(attemptCtx, prompt)
		cancel()
		if err == nil {
			return response, nil
		}
		lastErr = err
		if !isRateLimitError(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("rate limit persisted after %d retries: %w", e.maxRetries, lastErr)
}

// pace blocks until requestDelay has passed since the previous request
func (e *Enhancer) pace(ctx context.Context) error {
	e.mu.Lock()
	wait := time.Until(e.lastRequest.Add(e.requestDelay))
	if wait < 0 {
		wait = 0
	}
	e.lastRequest = time.Now().Add(wait)
	e.mu.Unlock()

	return sleep(ctx, wait)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// isRateLimitError reports whether err looks like a quota or 429 response
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"resourceexhausted", "resource_exhausted", "resource exhausted", "429", "rate limit", "quota"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func buildPrompt(text string, skills []models.SkillRecord, recs []models.Recommendation) string {
	var sb strings.Builder

	sb.WriteString("You are an expert career counselor helping people find the right career path based on their skills and experience.\n\n")

	names := make([]string, 0, promptSkills)
	for i, s := range skills {
		if i == promptSkills {
			break
		}
		names = append(names, s.Name)
	}
	sb.WriteString(fmt.Sprintf("Skills identified: %s\n\n", strings.Join(names, ", ")))

	sb.WriteString("Top career pathways matched:\n")
	for i, r := range recs {
		if i == promptPathways {
			break
		}
		sb.WriteString(fmt.Sprintf("- %s (Score: %.2f)\n", r.Pathway, r.MatchScore))
	}

	sb.WriteString("\n## CV SUMMARY\n")
	sb.WriteString(truncate(sanitizeUTF8(text), excerptRunes))
	sb.WriteString("\n\n")

	sb.WriteString("Please provide:\n")
	sb.WriteString("1. A brief analysis of the candidate's career profile\n")
	sb.WriteString("2. Which of the suggested pathways seems most suitable and why\n")
	sb.WriteString("3. Any additional career paths that might be worth considering\n")
	sb.WriteString("4. Key skills they should focus on developing next\n\n")
	sb.WriteString("Respond with a JSON object with the keys: profile_analysis, best_pathway, additional_pathways, development_focus.\n")
	sb.WriteString("Return ONLY the JSON object, no additional text.\n")

	return sb.String()
}

// parseInsight reads the JSON object in a model response. Text without a JSON object is
// kept under raw_insight.
func parseInsight(response string) (map[string]any, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("empty response")
	}

	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx < startIdx {
		return map[string]any{rawInsightField: response}, nil
	}

	var insight map[string]any
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &insight); err != nil {
		return map[string]any{rawInsightField: response}, nil
	}
	if len(insight) == 0 {
		return nil, fmt.Errorf("empty insight object")
	}
	return insight, nil
}

// sanitizeUTF8 replaces invalid byte sequences so the prompt is valid UTF-8
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncate cuts s to maxLen runes and marks the cut with an ellipsis
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
