// Package streaming proxies video upload and live-stream setup to the
// streaming provider. Every video and live input is tagged with the user
// and game it belongs to.
package streaming

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"roster/config"
)

const (
	ActionGetUploadURL    = "get-upload-url"
	ActionCreateLiveInput = "create-live-input"

	defaultPlaybackBaseURL = "https://videodelivery.net"
)

var (
	ErrUnknownAction = errors.New("unknown streaming action")
	ErrNotConfigured = errors.New("streaming is not configured")
)

type Client struct {
	httpClient *http.Client
	Config     config.StreamConfig
}

func NewClient(cfg config.StreamConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		Config:     cfg,
	}
}

type Request struct {
	Action   string            `json:"action"`
	UserID   string            `json:"user_id"`
	GameID   string            `json:"game_id"`
	Metadata map[string]string `json:"metadata"`
}

type UploadURL struct {
	UploadURL string `json:"upload_url"`
	VideoID   string `json:"video_id"`
}

type LiveInput struct {
	LiveInputID string `json:"live_input_id"`
	StreamKey   string `json:"stream_key"`
	IngestURL   string `json:"ingest_url"`
	PlaybackURL string `json:"playback_url"`
}

// Do runs req.Action and returns an *UploadURL or a *LiveInput.
func (c *Client) Do(ctx context.Context, req Request) (interface{}, error) {
	switch req.Action {
	case ActionGetUploadURL:
		return c.GetUploadURL(ctx, req)
	case ActionCreateLiveInput:
		return c.CreateLiveInput(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
}

type directUploadResult struct {
	UploadURL string `json:"uploadURL"`
	UID       string `json:"uid"`
}

// GetUploadURL creates a one-time direct upload URL for a video file.
func (c *Client) GetUploadURL(ctx context.Context, req Request) (*UploadURL, error) {
	body := map[string]interface{}{
		"maxDurationSeconds": c.Config.MaxDurationSeconds,
		"meta":               meta(req),
	}

	var result directUploadResult
	if err := c.post(ctx, "/stream/direct_upload", body, &result); err != nil {
		return nil, err
	}
	if result.UploadURL == "" || result.UID == "" {
		return nil, errors.New("direct upload response is missing the upload url")
	}
	return &UploadURL{UploadURL: result.UploadURL, VideoID: result.UID}, nil
}

type liveInputResult struct {
	UID   string `json:"uid"`
	RTMPS struct {
		URL       string `json:"url"`
		StreamKey string `json:"streamKey"`
	} `json:"rtmps"`
}

// CreateLiveInput creates a recorded live input for a game.
func (c *Client) CreateLiveInput(ctx context.Context, req Request) (*LiveInput, error) {
	body := map[string]interface{}{
		"meta":      meta(req),
		"recording": map[string]string{"mode": "automatic"},
	}

	var result liveInputResult
	if err := c.post(ctx, "/stream/live_inputs", body, &result); err != nil {
		return nil, err
	}
	if result.UID == "" {
		return nil, errors.New("live input response is missing the input id")
	}

	playbackBase := c.Config.PlaybackBaseURL
	if playbackBase == "" {
		playbackBase = defaultPlaybackBaseURL
	}
	return &LiveInput{
		LiveInputID: result.UID,
		StreamKey:   result.RTMPS.StreamKey,
		IngestURL:   result.RTMPS.URL,
		PlaybackURL: fmt.Sprintf("%s/%s/manifest/video.m3u8", strings.TrimRight(playbackBase, "/"), result.UID),
	}, nil
}

// meta merges caller metadata with the owning user and game.
func meta(req Request) map[string]string {
	m := make(map[string]string, len(req.Metadata)+2)
	for key, value := range req.Metadata {
		m[key] = value
	}
	m["user_id"] = req.UserID
	if req.GameID != "" {
		m["game_id"] = req.GameID
	}
	return m
}

type envelope struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	if c.Config.AccountID == "" || c.Config.APIToken == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s%s", strings.TrimRight(c.Config.APIBaseURL, "/"), c.Config.AccountID, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Config.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("error decoding response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		if len(env.Errors) > 0 {
			return fmt.Errorf("streaming api error %d: %s", env.Errors[0].Code, env.Errors[0].Message)
		}
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.Unmarshal(env.Result, result); err != nil {
		return fmt.Errorf("error decoding result: %w", err)
	}
	return nil
}
