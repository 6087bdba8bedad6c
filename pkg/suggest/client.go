package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/minhlq/curmap/pkg/cache"
	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/observability"
)

const defaultTimeout = 15 * time.Second

// Config assembles a Client. Zero values fall back to sane defaults:
// a null cache, the default keyer, an empty taxonomy, and log.Default.
type Config struct {
	BaseURL  string
	Token    string // Optional bearer token
	Cache    cache.Cache
	Keyer    cache.Keyer
	Taxonomy *Taxonomy
	Logger   *log.Logger
	HTTP     *http.Client
}

// Client calls the remote suggestion service and guarantees a synchronous
// answer: any transport or protocol failure falls back to the local
// generator, logged but never surfaced as an error.
type Client struct {
	base   string
	token  string
	http   *http.Client
	cache  cache.Cache
	keyer  cache.Keyer
	tax    *Taxonomy
	logger *log.Logger
}

// NewClient creates a suggestion client.
func NewClient(cfg Config) *Client {
	c := &Client{
		base:   cfg.BaseURL,
		token:  cfg.Token,
		http:   cfg.HTTP,
		cache:  cfg.Cache,
		keyer:  cfg.Keyer,
		tax:    cfg.Taxonomy,
		logger: cfg.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.keyer == nil {
		c.keyer = cache.NewDefaultKeyer()
	}
	if c.tax == nil {
		c.tax = NewTaxonomy(nil)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Request carries one suggestion query.
type Request struct {
	Outcome     string        `json:"plo"`
	OutcomeText string        `json:"ploText"`
	CourseName  string        `json:"courseName"`
	CourseLabel string        `json:"courseLabel"`
	Level       dataset.Level `json:"level"`
	Count       int           `json:"count"`
}

type suggestPayload struct {
	Request
	BloomVerbs []Verb `json:"bloomVerbs"`
}

type suggestResponse struct {
	Items []string `json:"items"`
}

type evaluatePayload struct {
	Outcome     string `json:"plo"`
	OutcomeText string `json:"ploText"`
	DetailText  string `json:"cloText"`
}

type evaluateResponse struct {
	Text string `json:"text"`
}

// Suggest returns candidate detail texts. The second result reports whether
// the remote service produced them; false means the local fallback did.
func (c *Client) Suggest(ctx context.Context, req Request) ([]string, bool) {
	if req.Count <= 0 {
		req.Count = 5
	}
	key := c.keyer.SuggestKey(req.Outcome, req.CourseLabel, string(req.Level), req.Count)
	if data, hit, _ := c.cache.Get(ctx, key); hit {
		var items []string
		if json.Unmarshal(data, &items) == nil {
			return items, true
		}
	}

	var resp suggestResponse
	start := time.Now()
	err := c.post(ctx, "/api/suggest", suggestPayload{Request: req, BloomVerbs: c.tax.Verbs()}, &resp)
	observability.Suggest().OnRemoteCall(ctx, "suggest", time.Since(start), err)
	if err == nil && len(resp.Items) > 0 {
		if data, merr := json.Marshal(resp.Items); merr == nil {
			_ = c.cache.Set(ctx, key, data, cache.DefaultTTL)
		}
		return resp.Items, true
	}
	if err == nil {
		err = fmt.Errorf("empty item list")
	}
	c.logger.Warn("suggest fallback", "outcome", req.Outcome, "err", err)
	observability.Suggest().OnFallback(ctx, "suggest")

	name := req.CourseName
	if name == "" {
		name = req.CourseLabel
	}
	return FallbackSuggest(c.tax, req.Outcome, name, req.Level, req.Count), false
}

// Evaluate scores a detail text against its outcome. The second result
// reports whether the remote service produced the assessment.
func (c *Client) Evaluate(ctx context.Context, outcome, outcomeText, detailText string) (Evaluation, bool) {
	key := c.keyer.EvaluateKey(outcome, detailText)
	if data, hit, _ := c.cache.Get(ctx, key); hit {
		var ev Evaluation
		if json.Unmarshal(data, &ev) == nil {
			return ev, true
		}
	}

	var resp evaluateResponse
	start := time.Now()
	err := c.post(ctx, "/api/evaluate", evaluatePayload{
		Outcome:     outcome,
		OutcomeText: outcomeText,
		DetailText:  detailText,
	}, &resp)
	observability.Suggest().OnRemoteCall(ctx, "evaluate", time.Since(start), err)
	if err == nil && resp.Text != "" {
		ev := Evaluation{Text: resp.Text}
		if data, merr := json.Marshal(ev); merr == nil {
			_ = c.cache.Set(ctx, key, data, cache.DefaultTTL)
		}
		return ev, true
	}
	if err == nil {
		err = fmt.Errorf("empty assessment text")
	}
	c.logger.Warn("evaluate fallback", "outcome", outcome, "err", err)
	observability.Suggest().OnFallback(ctx, "evaluate")

	return FallbackEvaluate(outcomeText, detailText), false
}

// post sends one JSON request. Network failures are retried with backoff;
// non-2xx statuses fail immediately with the body as context.
func (c *Client) post(ctx context.Context, path string, payload, v any) error {
	if c.base == "" {
		return fmt.Errorf("no remote endpoint configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return cache.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
		}
		return json.NewDecoder(resp.Body).Decode(v)
	})
}
