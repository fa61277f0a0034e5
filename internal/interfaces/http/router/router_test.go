package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"research-ai-api/internal/application/research"
	"research-ai-api/internal/config"
	"research-ai-api/internal/interfaces/http/handler"
)

type echoAnswerer struct{}

func (echoAnswerer) Run(_ context.Context, text string) (*research.Answer, error) {
	return &research.Answer{Text: "answer to " + text}, nil
}

func testRouter() *Router {
	cfg := &config.Config{}
	cfg.App.Name = "citebot"
	cfg.Server.HTTP.MaxBodyBytes = 64 << 10
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"

	return NewWithDeps(cfg, &RouterHandlers{
		Health:   handler.NewHealthHandler(cfg, nil, nil),
		Research: handler.NewResearchHandler(echoAnswerer{}),
	}, nil)
}

func TestRouter_AnswerRoutes(t *testing.T) {
	engine := testRouter().Engine()

	for _, path := range []string{"/api/gpt", "/v1/research/answer"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"text":"migraine"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"result":"answer to migraine"}`, w.Body.String(), path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestRouter_SystemRoutes(t *testing.T) {
	engine := testRouter().Engine()

	for path, want := range map[string]int{
		"/health":  http.StatusOK,
		"/live":    http.StatusOK,
		"/ready":   http.StatusServiceUnavailable,
		"/metrics": http.StatusOK,
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}
