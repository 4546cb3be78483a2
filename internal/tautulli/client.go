package tautulli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hnipps/purgarr/internal/arr"
	"github.com/hnipps/purgarr/internal/config"
	"github.com/hnipps/purgarr/pkg/models"
)

// TautulliClient implements a client for the Tautulli API v2
type TautulliClient struct {
	baseURL    string
	apiKey     string
	sectionID  int
	httpClient *http.Client
	logger     arr.Logger
}

// apiResponse is the envelope every Tautulli v2 command returns
type apiResponse[T any] struct {
	Response struct {
		Result  string `json:"result"`
		Message string `json:"message"`
		Data    T      `json:"data"`
	} `json:"response"`
}

// libraryMediaInfo is the data block of get_library_media_info
type libraryMediaInfo struct {
	RecordsFiltered int                   `json:"recordsFiltered"`
	Data            []models.LibraryEntry `json:"data"`
}

// metadata is the subset of get_metadata we use
type metadata struct {
	GUIDs models.GUIDSet `json:"guids"`
}

// NewTautulliClient creates a new Tautulli client
func NewTautulliClient(cfg *config.TautulliConfig, timeout time.Duration, logger arr.Logger) *TautulliClient {
	return &TautulliClient{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		apiKey:    cfg.APIKey,
		sectionID: cfg.MovieSectionID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// TestConnection verifies the connection to Tautulli
func (c *TautulliClient) TestConnection(ctx context.Context) error {
	var resp apiResponse[json.RawMessage]
	if err := c.call(ctx, "status", nil, &resp); err != nil {
		return fmt.Errorf("failed to connect to Tautulli: %w", err)
	}

	c.logger.Debug("Connected to Tautulli")
	return nil
}

// SearchMovies searches the configured movie library for titles containing
// the given text. Tautulli is asked to refresh its library cache first.
func (c *TautulliClient) SearchMovies(ctx context.Context, title string) ([]models.LibraryEntry, error) {
	params := url.Values{}
	params.Set("section_id", strconv.Itoa(c.sectionID))
	params.Set("search", title)
	params.Set("refresh", "true")

	var resp apiResponse[libraryMediaInfo]
	if err := c.call(ctx, "get_library_media_info", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search library: %w", err)
	}

	entries := resp.Response.Data.Data
	c.logger.Debug("Tautulli returned %d entries for %q", len(entries), title)
	return entries, nil
}

// GetGUIDs returns the provider GUIDs for a library item. A GUID list with
// an unexpected shape is reported through GUIDSet.Malformed, not as an error.
func (c *TautulliClient) GetGUIDs(ctx context.Context, ratingKey string) (models.GUIDSet, error) {
	params := url.Values{}
	params.Set("rating_key", ratingKey)

	var resp apiResponse[json.RawMessage]
	if err := c.call(ctx, "get_metadata", params, &resp); err != nil {
		return models.GUIDSet{}, fmt.Errorf("failed to fetch metadata for rating key %s: %w", ratingKey, err)
	}

	data := bytes.TrimSpace(resp.Response.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return models.GUIDSet{}, nil
	}

	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		c.logger.Debug("Unexpected metadata shape for rating key %s: %s", ratingKey, err.Error())
		return models.GUIDSet{Malformed: true}, nil
	}

	return meta.GUIDs, nil
}

// call runs a Tautulli command and decodes the envelope into out
func (c *TautulliClient) call(ctx context.Context, cmd string, params url.Values, out interface{}) error {
	u, err := url.Parse(c.baseURL + "/api/v2")
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	q := url.Values{}
	for key, values := range params {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	q.Set("apikey", c.apiKey)
	q.Set("cmd", cmd)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Making GET request to Tautulli cmd=%s", cmd)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Tautulli returned status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", cmd, err)
	}

	var envelope apiResponse[json.RawMessage]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", cmd, err)
	}
	if envelope.Response.Result != "success" {
		msg := envelope.Response.Message
		if msg == "" {
			msg = "unexpected response"
		}
		return fmt.Errorf("Tautulli %s failed: %s", cmd, msg)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", cmd, err)
	}

	return nil
}
