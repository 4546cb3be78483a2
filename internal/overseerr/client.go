package overseerr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hnipps/purgarr/internal/arr"
	"github.com/hnipps/purgarr/internal/config"
	"github.com/hnipps/purgarr/pkg/models"
)

// OverseerrClient implements a client for the Overseerr API v1
type OverseerrClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arr.Logger
}

// movieDetails is the subset of /api/v1/movie/{tmdbId} we use
type movieDetails struct {
	ID        int64 `json:"id"`
	MediaInfo *struct {
		ID     int64 `json:"id"`
		TMDBID int64 `json:"tmdbId"`
		Status int   `json:"status"`
	} `json:"mediaInfo"`
}

// NewOverseerrClient creates a new Overseerr client
func NewOverseerrClient(cfg *config.OverseerrConfig, timeout time.Duration, logger arr.Logger) *OverseerrClient {
	return &OverseerrClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GetMediaInfoID returns Overseerr's media id for a TMDB movie.
// models.ErrNotFound means Overseerr knows the movie but tracks no media for it.
func (c *OverseerrClient) GetMediaInfoID(ctx context.Context, tmdbID int64) (int64, error) {
	endpoint := fmt.Sprintf("/api/v1/movie/%d", tmdbID)

	resp, err := c.makeRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return 0, fmt.Errorf("failed to get movie %d: %w", tmdbID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, models.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to get movie %d: HTTP %d", tmdbID, resp.StatusCode)
	}

	var details movieDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return 0, fmt.Errorf("failed to decode movie %d: %w", tmdbID, err)
	}

	if details.MediaInfo == nil || details.MediaInfo.ID == 0 {
		return 0, models.ErrNotFound
	}

	return details.MediaInfo.ID, nil
}

// DeleteMedia removes a media item and its requests from Overseerr
func (c *OverseerrClient) DeleteMedia(ctx context.Context, mediaID int64) error {
	endpoint := fmt.Sprintf("/api/v1/media/%d", mediaID)

	resp, err := c.makeRequest(ctx, http.MethodDelete, endpoint)
	if err != nil {
		return fmt.Errorf("failed to delete media %d: %w", mediaID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("failed to delete media %d: HTTP %d: %s", mediaID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.Debug("Deleted Overseerr media %d", mediaID)
	return nil
}

// makeRequest makes an HTTP request to the Overseerr API
func (c *OverseerrClient) makeRequest(ctx context.Context, method, endpoint string) (*http.Response, error) {
	url := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Making %s request to Overseerr: %s", method, endpoint)

	return c.httpClient.Do(req)
}
