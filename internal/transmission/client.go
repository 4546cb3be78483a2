// Package transmission implements the small part of the Transmission RPC
// protocol needed to find and remove a movie's torrent.
package transmission

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hnipps/purgarr/internal/arr"
	"github.com/hnipps/purgarr/internal/config"
	"github.com/hnipps/purgarr/pkg/models"
)

const sessionIDHeader = "X-Transmission-Session-Id"

// ErrAuthFailed is returned when Transmission rejects the credentials
var ErrAuthFailed = errors.New("transmission authentication failed")

// Client is a Transmission RPC client
type Client struct {
	url        string
	username   string
	password   string
	sessionID  string
	httpClient *http.Client
	logger     arr.Logger
}

type rpcRequest struct {
	Method    string      `json:"method"`
	Arguments interface{} `json:"arguments,omitempty"`
}

type rpcResponse struct {
	Result    string          `json:"result"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type torrentGetArgs struct {
	Fields []string `json:"fields"`
}

type torrentGetResult struct {
	Torrents []models.Torrent `json:"torrents"`
}

type torrentRemoveArgs struct {
	IDs             []int64 `json:"ids"`
	DeleteLocalData bool    `json:"delete-local-data"`
}

// NewClient creates a Transmission client from configuration
func NewClient(cfg *config.TransmissionConfig, timeout time.Duration, logger arr.Logger) *Client {
	protocol := strings.ToLower(cfg.Protocol)
	if protocol == "" {
		protocol = "http"
	}
	path := cfg.Path
	if path == "" {
		path = "/transmission/rpc"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return &Client{
		url:      fmt.Sprintf("%s://%s:%d%s", protocol, cfg.Host, cfg.Port, path),
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ListTorrents returns id, name and hash of every torrent
func (c *Client) ListTorrents(ctx context.Context) ([]models.Torrent, error) {
	args := torrentGetArgs{Fields: []string{"id", "name", "hashString"}}

	resp, err := c.call(ctx, "torrent-get", args)
	if err != nil {
		return nil, fmt.Errorf("failed to list torrents: %w", err)
	}

	var result torrentGetResult
	if len(resp.Arguments) > 0 {
		if err := json.Unmarshal(resp.Arguments, &result); err != nil {
			return nil, fmt.Errorf("failed to decode torrent list: %w", err)
		}
	}

	c.logger.Debug("Transmission reported %d torrents", len(result.Torrents))
	return result.Torrents, nil
}

// RemoveTorrent removes a torrent, and its downloaded data when deleteData is set
func (c *Client) RemoveTorrent(ctx context.Context, id int64, deleteData bool) error {
	args := torrentRemoveArgs{IDs: []int64{id}, DeleteLocalData: deleteData}

	if _, err := c.call(ctx, "torrent-remove", args); err != nil {
		return fmt.Errorf("failed to remove torrent %d: %w", id, err)
	}
	return nil
}

// NameIndex maps torrent names to ids. When two torrents share a name the
// first one listed wins.
func NameIndex(torrents []models.Torrent) map[string]int64 {
	index := make(map[string]int64, len(torrents))
	for _, t := range torrents {
		if _, exists := index[t.Name]; exists {
			continue
		}
		index[t.Name] = t.ID
	}
	return index
}

func (c *Client) call(ctx context.Context, method string, args interface{}) (*rpcResponse, error) {
	resp, err := c.do(ctx, method, args)
	if err != nil {
		return nil, err
	}

	// Transmission answers the first request with 409 and a fresh session id
	if resp.StatusCode == http.StatusConflict {
		resp.Body.Close()
		c.sessionID = resp.Header.Get(sessionIDHeader)
		if c.sessionID == "" {
			return nil, fmt.Errorf("received 409 but no session ID in response")
		}
		c.logger.Debug("Refreshed Transmission session id")

		resp, err = c.do(ctx, method, args)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	return parseRPCResponse(resp)
}

func (c *Client) do(ctx context.Context, method string, args interface{}) (*http.Response, error) {
	body, err := json.Marshal(rpcRequest{Method: method, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set(sessionIDHeader, c.sessionID)
	}
	if c.username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.password))
		req.Header.Set("Authorization", "Basic "+auth)
	}

	c.logger.Debug("Making Transmission RPC call: %s", method)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

func parseRPCResponse(resp *http.Response) (*rpcResponse, error) {
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrAuthFailed
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if rpcResp.Result != "success" {
		return nil, fmt.Errorf("RPC error: %s", rpcResp.Result)
	}

	return &rpcResp, nil
}
