package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client talks to a remote leaderboard API and degrades to a LocalCache on
// any network or HTTP failure. It never returns an error to the caller.
type Client struct {
	endpoint string
	http     *http.Client
	cache    *LocalCache
	log      zerolog.Logger
	now      func() time.Time
}

// NewClient targets baseURL + "/api/leaderboard".
func NewClient(baseURL string, cache *LocalCache, log zerolog.Logger) *Client {
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/leaderboard",
		http:     &http.Client{Timeout: 5 * time.Second},
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// FetchTop returns the remote top list, or the cached one on failure.
func (c *Client) FetchTop(ctx context.Context) []Record {
	records, err := c.fetch(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Leaderboard unreachable, using local cache")
		return c.cache.Load()
	}
	return records
}

func (c *Client) fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return parseRecords(body)
}

// SubmitScore posts a run. On failure the run is stored locally under a
// fresh uuid. The result is nil only when the server accepted the run but
// returned no record.
func (c *Client) SubmitScore(ctx context.Context, sub Submission) *Record {
	rec, err := c.submit(ctx, sub)
	if err == nil {
		return rec
	}
	c.log.Warn().Err(err).Msg("Storing score locally")

	local := Record{
		ID:         uuid.NewString(),
		Username:   sub.Username,
		DurationMs: sub.DurationMs,
		DayCount:   sub.DayCount,
		CreatedAt:  c.now().UTC().Format(time.RFC3339),
	}
	if err := c.cache.Add(local); err != nil {
		c.log.Error().Err(err).Msg("Failed to write leaderboard cache")
	}
	return &local
}

func (c *Client) submit(ctx context.Context, sub Submission) (*Record, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return parseRecord(body)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, c.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: status %d", req.Method, c.endpoint, resp.StatusCode)
	}
	return body, nil
}

// Top satisfies Store. Failures are absorbed by the cache fallback.
func (c *Client) Top(ctx context.Context, n int) ([]Record, error) {
	records := c.FetchTop(ctx)
	if n > 0 && len(records) > n {
		records = records[:n]
	}
	return records, nil
}

// Submit satisfies Store.
func (c *Client) Submit(ctx context.Context, sub Submission) (Record, error) {
	sub, err := sub.Normalize()
	if err != nil {
		return Record{}, err
	}
	rec := c.SubmitScore(ctx, sub)
	if rec == nil {
		return Record{}, fmt.Errorf("%w: server returned no record", ErrInvalidSubmission)
	}
	return *rec, nil
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
