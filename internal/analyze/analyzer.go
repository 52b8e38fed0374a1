package analyze

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/adtech-insider/insight-cli/pkg/anthropic"
)

const systemPrompt = `You are a marketing intelligence analyst covering the advertising technology industry. Given a company name and a year, produce a structured analysis of that company's marketing and growth activity for the year.

Respond with a single JSON object and nothing else, using exactly this shape:
{
  "company": {"name": string, "slug": string, "sector": string, "geo": string, "logoUrl": string},
  "year": number,
  "summary": string,
  "highlights": [string],
  "risks": [string],
  "initiatives": [string],
  "quarters": [
    {
      "quarter": "Q1" | "Q2" | "Q3" | "Q4",
      "theme": string,
      "activities": [{"title": string, "description": string, "channel": string, "kpi": string, "notes": string, "confidence": number}],
      "scores": {"activity": number, "intensity": number, "peak": number, "perception": number}
    }
  ],
  "sources": [{"title": string, "url": string, "type": string}],
  "confidence_overall": number
}

Rules:
- Exactly four quarters, Q1 through Q4, each with at least three activities.
- All scores are integers from 0 to 100. Confidence values are between 0 and 1.
- logoUrl must be a public https URL to the company's logo, or an empty string if unsure. Never invent placeholder URLs.
- Base the analysis on publicly known information. When uncertain, lower the confidence rather than fabricating specifics.`

// Config tunes the analyzer's model call and request throttling.
type Config struct {
	Model       string
	MaxTokens   int64
	Year        int
	Temperature float64
	// RequestsPerMinute caps upstream model calls. Zero disables throttling.
	RequestsPerMinute int
}

// Analyzer runs LLM-backed company analyses. Concurrent requests for the
// same company/year pair collapse into a single upstream call, and results
// are memoized in the injected cache.
type Analyzer struct {
	llm     anthropic.Client
	cache   *Cache
	limiter *rate.Limiter
	group   singleflight.Group
	cfg     Config
}

// New builds an Analyzer. llm may be nil, in which case every analysis is
// served from the deterministic fallback.
func New(llm anthropic.Client, cache *Cache, cfg Config) *Analyzer {
	if cache == nil {
		cache = NewCache(DefaultCacheTTL)
	}
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-5"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Year <= 0 {
		cfg.Year = DefaultYear
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}

	return &Analyzer{llm: llm, cache: cache, limiter: limiter, cfg: cfg}
}

// Analyze returns a fully-populated analysis for the named company, from
// cache when fresh. The result is always sanitized and never nil on a nil
// error.
func (a *Analyzer) Analyze(ctx context.Context, companyName string) (*Response, error) {
	if companyName == "" {
		return nil, eris.New("analyze: company name is required")
	}

	key := CacheKey(companyName, a.cfg.Year)
	if cached := a.cache.Get(key); cached != nil {
		zap.L().Debug("analysis cache hit", zap.String("key", key))
		return cached, nil
	}

	res, err, shared := a.group.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// populated the cache between our miss and this closure.
		if cached := a.cache.Get(key); cached != nil {
			return cached, nil
		}

		out, err := a.fetch(ctx, companyName)
		if err != nil {
			return nil, err
		}
		a.cache.Set(key, out)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		zap.L().Debug("analysis request coalesced", zap.String("key", key))
	}
	return res.(*Response), nil
}

// fetch performs one upstream call, degrading to the deterministic fallback
// when no client is configured or the model output cannot be used.
func (a *Analyzer) fetch(ctx context.Context, companyName string) (*Response, error) {
	if a.llm == nil {
		zap.L().Info("no model client configured, using fallback analysis",
			zap.String("company", companyName))
		return Sanitize(nil, companyName, a.cfg.Year), nil
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "analyze: rate limit wait")
		}
	}

	prompt := fmt.Sprintf("Analyze the %d marketing activity of the company %q. Return only the JSON object.", a.cfg.Year, companyName)

	req := anthropic.MessageRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	}
	if a.cfg.Temperature > 0 {
		req.Temperature = &a.cfg.Temperature
	}

	resp, err := a.llm.CreateMessage(ctx, req)
	if err != nil {
		zap.L().Warn("model request failed, using fallback analysis",
			zap.String("company", companyName),
			zap.Error(err))
		return Sanitize(nil, companyName, a.cfg.Year), nil
	}
	resp.Usage.LogUsage(resp.Model, "analyze")

	raw, ok := extractJSON(resp.Text())
	if !ok {
		zap.L().Warn("model returned no parseable JSON, using fallback analysis",
			zap.String("company", companyName),
			zap.String("stop_reason", resp.StopReason))
		return Sanitize(nil, companyName, a.cfg.Year), nil
	}

	return Sanitize(raw, companyName, a.cfg.Year), nil
}
