// Package search 提供外部网页检索服务客户端
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"research-ai-api/internal/config"
	"research-ai-api/internal/domain/entity"
	"research-ai-api/pkg/logger"
	"research-ai-api/pkg/metrics"
)

const (
	providerExa     = "exa"
	searchPath      = "/search"
	apiKeyHeader    = "x-api-key"
	maxErrorBodyLen = 4 << 10
)

var tracer = otel.Tracer("search")

// StatusError 检索服务返回非 2xx 状态
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// HTTPStatus 返回上游状态码
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// ExaClient Exa 神经检索客户端
type ExaClient struct {
	endpoint   string
	apiKey     string
	numResults int
	domains    []string
	autoprompt bool
	highlights config.HighlightConfig
	httpClient *http.Client
}

// NewExaClient 创建 Exa 检索客户端
func NewExaClient(cfg *config.SearchConfig) *ExaClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewExaClientWithHTTP(cfg, &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// NewExaClientWithHTTP 使用指定 http.Client 创建客户端
func NewExaClientWithHTTP(cfg *config.SearchConfig, hc *http.Client) *ExaClient {
	domains := make([]string, 0, len(cfg.IncludeDomains))
	for _, d := range cfg.IncludeDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}
	return &ExaClient{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		numResults: cfg.NumResults,
		domains:    domains,
		autoprompt: cfg.UseAutoprompt,
		highlights: cfg.Highlights,
		httpClient: hc,
	}
}

type searchRequest struct {
	Query          string          `json:"query"`
	NumResults     int             `json:"numResults,omitempty"`
	IncludeDomains []string        `json:"includeDomains,omitempty"`
	UseAutoprompt  bool            `json:"useAutoprompt"`
	Contents       requestContents `json:"contents"`
}

type requestContents struct {
	Highlights highlightOptions `json:"highlights"`
}

type highlightOptions struct {
	NumSentences     int `json:"numSentences,omitempty"`
	HighlightsPerURL int `json:"highlightsPerUrl,omitempty"`
}

type searchResponse struct {
	Results          []searchResult `json:"results"`
	AutopromptString string         `json:"autopromptString"`
}

type searchResult struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	PublishedDate   string    `json:"publishedDate"`
	Author          string    `json:"author"`
	Score           float64   `json:"score"`
	Highlights      []string  `json:"highlights"`
	HighlightScores []float64 `json:"highlightScores"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Retrieve 以查询文本检索白名单域名下的网页结果
func (c *ExaClient) Retrieve(ctx context.Context, query string) (*entity.RetrievalResponse, error) {
	ctx, span := tracer.Start(ctx, "search.Exa.Retrieve")
	span.SetAttributes(
		attribute.Int("search.num_results", c.numResults),
		attribute.Int("search.include_domains", len(c.domains)),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.do(ctx, query)
	metrics.SearchCallDuration.WithLabelValues(providerExa).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchCallTotal.WithLabelValues(providerExa, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	metrics.SearchCallTotal.WithLabelValues(providerExa, "success").Inc()

	out := &entity.RetrievalResponse{
		AutopromptString: resp.AutopromptString,
		Results:          make([]entity.RetrievalResult, 0, len(resp.Results)),
	}
	dropped := 0
	for _, r := range resp.Results {
		if c.numResults > 0 && len(out.Results) >= c.numResults {
			break
		}
		if !c.allowed(r.URL) {
			dropped++
			continue
		}
		out.Results = append(out.Results, entity.RetrievalResult{
			ID:              r.ID,
			Title:           r.Title,
			URL:             r.URL,
			PublishedDate:   r.PublishedDate,
			Author:          r.Author,
			Score:           r.Score,
			Highlights:      r.Highlights,
			HighlightScores: r.HighlightScores,
		})
	}
	if dropped > 0 {
		logger.Warn(ctx, "dropped search results outside allowed domains", "dropped", dropped)
	}

	metrics.SearchResultsReturned.Observe(float64(len(out.Results)))
	span.SetAttributes(attribute.Int("search.results", len(out.Results)))
	return out, nil
}

func (c *ExaClient) do(ctx context.Context, query string) (*searchResponse, error) {
	payload, err := json.Marshal(searchRequest{
		Query:          query,
		NumResults:     c.numResults,
		IncludeDomains: c.domains,
		UseAutoprompt:  c.autoprompt,
		Contents: requestContents{Highlights: highlightOptions{
			NumSentences:     c.highlights.NumSentences,
			HighlightsPerURL: c.highlights.PerURL,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, newStatusError(httpResp)
	}

	var out searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &out, nil
}

func newStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))

	msg := ""
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		msg = strings.TrimSpace(eb.Error)
		if msg == "" {
			msg = strings.TrimSpace(eb.Message)
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}

// allowed 结果 URL 的主机名须等于白名单域名或为其子域名；白名单为空时不过滤
func (c *ExaClient) allowed(raw string) bool {
	if len(c.domains) == 0 {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, d := range c.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
