// Package deepseek 调用 DeepSeek chat completions 接口。
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"baby-namer/config"
	"baby-namer/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.deepseek.com/v1"
	defaultModel   = "deepseek-chat"
	maxBodyBytes   = 1 << 20
)

var (
	// ErrMissingAPIKey 环境变量中没有 API Key
	ErrMissingAPIKey = errors.New("deepseek api key not configured")
	// ErrEmptyCompletion 响应中没有可用的 choices[0].message.content
	ErrEmptyCompletion = errors.New("deepseek returned empty completion")
)

// StatusError 上游返回非 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("deepseek status %d: %s", e.StatusCode, e.Body)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client DeepSeek 客户端，出站请求经过令牌桶限速
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKeyEnv  string
	timeout    time.Duration
	limiter    *rate.Limiter
	getenv     func(string) string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEnvLookup 替换读取 API Key 的方式
func WithEnvLookup(getenv func(string) string) Option {
	return func(c *Client) { c.getenv = getenv }
}

func NewClient(cfg config.UpstreamConfig, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		apiKeyEnv:  cfg.APIKeyEnv,
		timeout:    cfg.RequestTimeout(),
		getenv:     os.Getenv,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.apiKeyEnv == "" {
		c.apiKeyEnv = "DEEPSEEK_API_KEY"
	}
	if cfg.MaxRPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.MaxRPS), burst)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete 发送一次对话请求，返回去除首尾空白的 content
func (c *Client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	// 每次调用时读取，便于不重启更换 Key
	apiKey := c.getenv(c.apiKeyEnv)
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if req.Model == "" {
		req.Model = c.model
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("wait for upstream slot: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call deepseek: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read deepseek response: %w", err)
	}
	logger.Debugf("deepseek responded status=%d in %s", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode deepseek response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// truncate 按字节截断，回退到字符边界
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
