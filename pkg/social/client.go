// Copyright (c) 2026, The netpulse authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package social

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"golang.org/x/time/rate"

	"github.com/netpulse/netpulse/pkg/config"
	"github.com/netpulse/netpulse/pkg/defaults"
)

const (
	// UserAgent identifies outbound requests.
	UserAgent = "netpulse/1.0"

	defaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	defaultStatusURL = "https://api.twitter.com/1.1/statuses/update.json"

	// Error bodies are truncated to this many bytes in logs and errors.
	maxErrorBody = 4096
)

// defaultEndpoint is the three-legged OAuth 1.0a endpoint set used when
// no override is supplied.
var defaultEndpoint = oauth1.Endpoint{
	RequestTokenURL: "https://api.twitter.com/oauth/request_token",
	AuthorizeURL:    "https://api.twitter.com/oauth/authorize",
	AccessTokenURL:  "https://api.twitter.com/oauth/access_token",
}

type settings struct {
	uploadURL string
	statusURL string
	endpoint  oauth1.Endpoint
	base      *http.Client
	limiter   *rate.Limiter
}

// Option configures a Client or Authorizer.
type Option func(*settings)

// WithUploadURL overrides the media upload endpoint.
func WithUploadURL(u string) Option {
	return func(s *settings) {
		s.uploadURL = u
	}
}

// WithStatusURL overrides the status update endpoint.
func WithStatusURL(u string) Option {
	return func(s *settings) {
		s.statusURL = u
	}
}

// WithEndpoint overrides the OAuth token-grant endpoints.
func WithEndpoint(e oauth1.Endpoint) Option {
	return func(s *settings) {
		s.endpoint = e
	}
}

// WithHTTPClient supplies the underlying HTTP client the signing transport
// wraps. Mostly useful in tests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.base = c
	}
}

// WithRateLimit overrides the client-side request pacing.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(s *settings) {
		s.limiter = rate.NewLimiter(limit, burst)
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{
		uploadURL: defaultUploadURL,
		statusURL: defaultStatusURL,
		endpoint:  defaultEndpoint,
		// A publish makes exactly two calls; the limiter only matters when
		// something retries in a tight loop.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newTransport builds the pooled, timeout-bounded transport the signing
// client wraps.
func newTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,

		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,

		IdleConnTimeout:   defaults.HTTPIdleConnTimeout,
		ForceAttemptHTTP2: true,

		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// Client posts rendered charts to the social account using the OAuth 1.0a
// user context from the configuration. All requests are signed by the
// oauth1 transport and paced by a client-side limiter.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	uploadURL  string
	statusURL  string
}

// NewClient builds a posting client from a completed configuration.
// It fails if any of the four credential fields is empty.
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" ||
		cfg.AccessToken == "" || cfg.AccessTokenSecret == "" {
		return nil, fmt.Errorf("incomplete credentials: all four OAuth fields are required")
	}

	s := newSettings(opts)

	base := s.base
	if base == nil {
		base = &http.Client{
			Timeout:   defaults.HTTPClientTimeout,
			Transport: newTransport(),
		}
	}

	oauthCfg := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	oauthCfg.Endpoint = s.endpoint
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)

	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	signing := oauthCfg.Client(ctx, token)
	signing.Timeout = base.Timeout

	return &Client{
		httpClient: signing,
		limiter:    s.limiter,
		uploadURL:  s.uploadURL,
		statusURL:  s.statusURL,
	}, nil
}

// PostWithMedia uploads the image at mediaPath and publishes a status
// referencing it. It returns the posted status ID.
func (c *Client) PostWithMedia(ctx context.Context, text, mediaPath string) (string, error) {
	mediaID, err := c.uploadMedia(ctx, mediaPath)
	if err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}
	slog.Debug("media uploaded", slog.String("media_id", mediaID))

	statusID, err := c.updateStatus(ctx, text, mediaID)
	if err != nil {
		return "", fmt.Errorf("failed to update status: %w", err)
	}
	slog.Info("status posted",
		slog.String("status_id", statusID),
		slog.String("text", text))
	return statusID, nil
}

func (c *Client) uploadMedia(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open media file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read media file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	if out.MediaIDString == "" {
		return "", fmt.Errorf("upload response carried no media id")
	}
	return out.MediaIDString, nil
}

func (c *Client) updateStatus(ctx context.Context, text, mediaID string) (string, error) {
	form := url.Values{}
	form.Set("status", text)
	form.Set("media_ids", mediaID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.statusURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		IDStr string `json:"id_str"`
	}
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	if out.IDStr == "" {
		return "", fmt.Errorf("status response carried no id")
	}
	return out.IDStr, nil
}

// do paces, sends, and decodes one API call. Non-2xx responses become
// errors carrying a truncated body excerpt.
func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
