package ollama

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spigell/guest-tracker/internal/ai"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	generatePath    = "/api/generate"

	defaultURL       = "http://localhost:11434"
	defaultModel     = "llama3.3:70b"
	defaultTimeout   = 60 * time.Second
	defaultMaxTokens = 1000
)

// Client talks to an Ollama compatible /api/generate endpoint.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	logger      *zap.Logger
	HTTPClient  *http.Client
	UserAgent   string
}

type Options struct {
	URL         string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func New(opts Options, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.URL), "/")
	if baseURL == "" {
		baseURL = defaultURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:     baseURL,
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   maxTokens,
		logger:      logger,
		HTTPClient:  &http.Client{Timeout: timeout},
		UserAgent:   "spigell/guest-tracker",
	}
}

// GenerateContent posts a non-streaming generate request and returns the trimmed answer.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Options: generateOptions{
			Temperature: c.temperature,
			NumPredict:  c.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req = c.setHeaders(req)

	resp, err := c.request(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	var parsed generateResponse
	if err := decodeBody(resp, &parsed); err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", fmt.Errorf("bad status: %s: %s", resp.Status, parsed.Error)
		}
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	output := strings.TrimSpace(parsed.Response)
	if output == "" {
		return "", ai.ErrEmptyResponse
	}
	return output, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// decodeBody reads a possibly gzip encoded JSON body. Non JSON error bodies are tolerated.
func decodeBody(resp *http.Response, target any) error {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, target); err != nil && resp.StatusCode == http.StatusOK {
		return fmt.Errorf("decode ollama response: %w", err)
	}
	return nil
}
