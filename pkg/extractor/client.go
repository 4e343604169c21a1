package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"reelgrab/pkg/config"
	"reelgrab/pkg/errors"
	"reelgrab/pkg/logger"
	"reelgrab/pkg/ratelimit"
)

// maxResponseSize caps how much of an extraction reply is read
const maxResponseSize = 1 << 20

// Client talks to the remote extraction service and to the video host
type Client struct {
	httpClient  *http.Client
	assetClient *http.Client
	headers     map[string]string
	endpoint    string
	apiToken    string
	maxFileSize int64
	limiter     *ratelimit.SlidingWindow
	logger      logger.Logger
}

// NewClient creates a client from the extraction and download settings
func NewClient(extraction config.ExtractionConfig, download config.DownloadConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: extraction.Timeout},
		assetClient: &http.Client{Timeout: download.Timeout},
		headers: map[string]string{
			"User-Agent":      extraction.UserAgent,
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
		},
		endpoint:    extraction.Endpoint,
		apiToken:    extraction.APIToken,
		maxFileSize: download.MaxFileSize,
		limiter:     ratelimit.PerMinute(extraction.RequestsPerMinute),
		logger:      log,
	}
}

// SetAPIToken sets the bearer token sent to the extraction service
func (c *Client) SetAPIToken(token string) {
	c.apiToken = token
}

// Endpoint returns the extraction endpoint in use
func (c *Client) Endpoint() string {
	return c.endpoint
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(hc *http.Client, req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := hc.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork, err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Extract asks the extraction service for the direct video of a reel. The
// HTTP status is not checked: any JSON body is returned to the caller.
func (c *Client) Extract(ctx context.Context, reelURL string) (*ExtractResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork, err)
		}
	}

	body, err := json.Marshal(ExtractRequest{URL: reelURL})
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork,
			fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.doRequest(c.httpClient, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork,
			fmt.Errorf("failed to read response body: %w", err)).WithCode(resp.StatusCode)
	}

	var result ExtractResponse
	if err := json.Unmarshal(data, &result); err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse extraction response", map[string]interface{}{
			"url":          c.endpoint,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork,
			fmt.Errorf("failed to parse JSON: %w", err)).WithCode(resp.StatusCode)
	}

	c.logger.DebugWithFields("extraction response received", map[string]interface{}{
		"status":  resp.StatusCode,
		"success": result.Success,
		"videos":  len(result.Msg.Videos),
	})

	return &result, nil
}

// FetchAsset downloads the bytes of a direct video URL
func (c *Client) FetchAsset(ctx context.Context, assetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork,
			fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.doRequest(c.assetClient, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnWithFields("video host returned an error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    assetURL,
		})
		return nil, errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode)).WithCode(resp.StatusCode)
	}

	if c.maxFileSize > 0 && resp.ContentLength > c.maxFileSize {
		return nil, c.tooLarge(resp.ContentLength)
	}

	var reader io.Reader = resp.Body
	if c.maxFileSize > 0 {
		reader = io.LimitReader(resp.Body, c.maxFileSize+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork,
			fmt.Errorf("failed to read video: %w", err))
	}
	if c.maxFileSize > 0 && int64(len(data)) > c.maxFileSize {
		return nil, c.tooLarge(int64(len(data)))
	}

	c.logger.DebugWithFields("video downloaded", map[string]interface{}{
		"url":  assetURL,
		"size": humanize.Bytes(uint64(len(data))),
	})

	return data, nil
}

func (c *Client) tooLarge(size int64) error {
	return errors.Wrap(errors.ErrorTypeNetwork, errors.MsgNetwork,
		fmt.Errorf("video exceeds the %s limit (got at least %s)",
			humanize.Bytes(uint64(c.maxFileSize)), humanize.Bytes(uint64(size))))
}
