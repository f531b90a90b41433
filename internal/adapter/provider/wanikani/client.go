// Package wanikani is a read-only client for the WaniKani v2 API covering the
// resources the sync needs: burned assignments, subjects, study materials and
// pronunciation audio.
package wanikani

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/heartmarshall/burnki/internal/config"
	"github.com/heartmarshall/burnki/internal/domain"
)

const (
	defaultBaseURL   = "https://api.wanikani.com/v2"
	defaultRevision  = "20170710"
	defaultTimeout   = 30 * time.Second
	defaultBatchSize = config.MaxBatchSize

	headerRevision = "Wanikani-Revision"
)

// Client fetches burned items and their details from WaniKani.
// It is safe for sequential use by one sync at a time.
type Client struct {
	baseURL    string
	revision   string
	batchSize  int
	httpClient *http.Client
	limiter    *rateLimiter
	log        *slog.Logger
}

// NewClient creates a Client from the wanikani config section.
// Zero values fall back to the public API defaults.
func NewClient(cfg config.WaniKaniConfig, logger *slog.Logger) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		revision:   cfg.Revision,
		batchSize:  cfg.BatchSize,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    newRateLimiter(cfg.RateLimitThreshold),
		log:        logger.With("adapter", "wanikani"),
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.revision == "" {
		c.revision = defaultRevision
	}
	if c.batchSize <= 0 || c.batchSize > config.MaxBatchSize {
		c.batchSize = defaultBatchSize
	}
	if cfg.Timeout <= 0 {
		c.httpClient.Timeout = defaultTimeout
	}
	if cfg.RateLimitThreshold <= 0 {
		c.limiter.threshold = defaultRateLimitThreshold
	}
	return c
}

// NewClientWithURL creates a Client with default settings and a custom base URL (for testing).
func NewClientWithURL(baseURL string, logger *slog.Logger) *Client {
	return NewClient(config.WaniKaniConfig{BaseURL: baseURL}, logger)
}

// FetchBurnedAssignments lists every assignment at the burned SRS stage.
// A non-empty updatedAfter restricts the list to assignments changed since then.
func (c *Client) FetchBurnedAssignments(ctx context.Context, token, updatedAfter string) ([]domain.Assignment, error) {
	reqURL := c.baseURL + "/assignments?srs_stages=" + strconv.Itoa(domain.BurnedSRSStage)
	if updatedAfter != "" {
		reqURL += "&updated_after=" + url.QueryEscape(updatedAfter)
	}

	var assignments []domain.Assignment
	err := c.paginate(ctx, token, reqURL, func(r apiResource) error {
		a, err := parseAssignment(r)
		if err != nil {
			return err
		}
		assignments = append(assignments, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("wanikani: fetch assignments: %w", err)
	}

	c.log.DebugContext(ctx, "fetched burned assignments",
		slog.Int("count", len(assignments)),
		slog.Bool("incremental", updatedAfter != ""),
	)
	return assignments, nil
}

// FetchSubjects looks up subjects by id in batches. Ids the API does not
// return are absent from the map.
func (c *Client) FetchSubjects(ctx context.Context, token string, ids []int) (map[int]domain.Subject, error) {
	subjects := make(map[int]domain.Subject, len(ids))

	for _, batch := range batchIDs(ids, c.batchSize) {
		reqURL := c.baseURL + "/subjects?ids=" + joinIDs(batch)
		err := c.paginate(ctx, token, reqURL, func(r apiResource) error {
			s, err := parseSubject(r)
			if err != nil {
				return err
			}
			subjects[s.ID] = s
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("wanikani: fetch subjects: %w", err)
		}
	}

	c.log.DebugContext(ctx, "fetched subjects",
		slog.Int("requested", len(ids)),
		slog.Int("found", len(subjects)),
	)
	return subjects, nil
}

// FetchStudyMaterials looks up the user's study materials for the given
// subjects, keyed by subject id.
func (c *Client) FetchStudyMaterials(ctx context.Context, token string, ids []int) (map[int]domain.StudyMaterial, error) {
	materials := make(map[int]domain.StudyMaterial)

	for _, batch := range batchIDs(ids, c.batchSize) {
		reqURL := c.baseURL + "/study_materials?subject_ids=" + joinIDs(batch)
		err := c.paginate(ctx, token, reqURL, func(r apiResource) error {
			sm, err := parseStudyMaterial(r)
			if err != nil {
				return err
			}
			materials[sm.SubjectID] = sm
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("wanikani: fetch study materials: %w", err)
		}
	}

	c.log.DebugContext(ctx, "fetched study materials", slog.Int("count", len(materials)))
	return materials, nil
}

// DownloadAudio fetches the raw body of a pronunciation audio URL.
// Audio is served from a CDN, so no auth headers or quota tracking apply.
func (c *Client) DownloadAudio(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wanikani: create audio request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wanikani: download audio: %w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wanikani: download audio: %w: %w", domain.ErrNetwork, &domain.APIError{
			StatusCode: resp.StatusCode,
			URL:        audioURL,
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wanikani: read audio: %w: %v", domain.ErrNetwork, err)
	}
	return body, nil
}

// paginate requests reqURL and every following page, handing each resource
// to onItem.
func (c *Client) paginate(ctx context.Context, token, reqURL string, onItem func(apiResource) error) error {
	next := reqURL
	for page := 1; next != ""; page++ {
		coll, err := c.getCollection(ctx, token, next)
		if err != nil {
			return err
		}
		for _, r := range coll.Data {
			if err := onItem(r); err != nil {
				return err
			}
		}

		next = ""
		if coll.Pages.NextURL != nil {
			next = *coll.Pages.NextURL
		}
		c.log.DebugContext(ctx, "wanikani page",
			slog.Int("page", page),
			slog.Int("items", len(coll.Data)),
			slog.Bool("has_next", next != ""),
		)
	}
	return nil
}

// getCollection issues one authenticated API request. Before sending it waits
// out any pause scheduled by the previous response. A 429 carrying a reset
// header is retried once after that reset.
func (c *Client) getCollection(ctx context.Context, token, reqURL string) (*apiCollection, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing api token", domain.ErrAuth)
	}

	for attempt := 0; ; attempt++ {
		waited, err := c.limiter.wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		if waited > 0 {
			c.log.InfoContext(ctx, "rate limit pause finished", slog.Duration("waited", waited))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(headerRevision, c.revision)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.ErrorContext(ctx, "wanikani request failed", slog.String("url", reqURL), slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("%w: read body: %v", domain.ErrNetwork, readErr)
		}

		exhausted := resp.StatusCode == http.StatusTooManyRequests
		if c.limiter.observe(resp.Header, exhausted) {
			c.log.WarnContext(ctx, "rate limit reached, pausing",
				slog.String("remaining", resp.Header.Get(headerRateLimitRemaining)),
				slog.String("reset", resp.Header.Get(headerRateLimitReset)),
			)
			if exhausted && attempt == 0 {
				continue
			}
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return decodeCollection(body)
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", domain.ErrAuth, errorMessage(body, "invalid api token"))
		default:
			return nil, &domain.APIError{
				StatusCode: resp.StatusCode,
				URL:        reqURL,
				Message:    errorMessage(body, ""),
			}
		}
	}
}

// errorMessage extracts the "error" field of an API error body.
func errorMessage(body []byte, fallback string) string {
	var e apiErrorBody
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return fallback
	}
	return e.Error
}

// batchIDs splits ids into consecutive chunks of at most size elements.
func batchIDs(ids []int, size int) [][]int {
	var batches [][]int
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
