package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/plan"
	"github.com/skindiary/careplan-backend/internal/utils"
)

// Client is the Skin Scoring Service boundary. Scores and narrative
// recommendations are consumed as opaque data; the plan engine never
// recomputes them.
type Client interface {
	Score(ctx context.Context, answers map[string]any) ([]plan.AxisScore, error)
	Recommend(ctx context.Context, scores []plan.AxisScore, answers map[string]any) (*plan.Recommendations, error)
}

type httpClient struct {
	log     *logger.Logger
	baseURL string
	hc      *http.Client
}

// NewClient builds the HTTP scoring client. With no SCORING_SERVICE_URL
// configured the client is disabled: every call returns empty results and
// generation proceeds without scores.
func NewClient(log *logger.Logger) Client {
	clientLog := log.With("service", "SkinScoringClient")
	baseURL := strings.TrimRight(utils.GetEnv("SCORING_SERVICE_URL", "", log), "/")
	if baseURL == "" {
		clientLog.Info("Scoring service URL not configured, scoring disabled")
	}
	return &httpClient{
		log:     clientLog,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) Score(ctx context.Context, answers map[string]any) ([]plan.AxisScore, error) {
	if c.baseURL == "" {
		return nil, nil
	}
	var out struct {
		Scores []plan.AxisScore `json:"scores"`
	}
	if err := c.post(ctx, "/score", map[string]any{"answers": answers}, &out); err != nil {
		return nil, err
	}
	return out.Scores, nil
}

func (c *httpClient) Recommend(ctx context.Context, scores []plan.AxisScore, answers map[string]any) (*plan.Recommendations, error) {
	if c.baseURL == "" {
		return nil, nil
	}
	var out plan.Recommendations
	payload := map[string]any{"scores": scores, "answers": answers}
	if err := c.post(ctx, "/recommend", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal scoring request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("scoring request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring request %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode scoring response %s: %w", path, err)
	}
	return nil
}
