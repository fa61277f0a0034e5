package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-ai-api/internal/application/research"
	"research-ai-api/internal/interfaces/http/middleware"
)

type fakeAnswerer struct {
	answer *research.Answer
	err    error
	got    string
	ctxErr error
}

func (f *fakeAnswerer) Run(ctx context.Context, text string) (*research.Answer, error) {
	f.got = text
	f.ctxErr = ctx.Err()
	return f.answer, f.err
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return "Invalid API key" }
func (e statusErr) HTTPStatus() int { return e.code }

func newTestEngine(a Answerer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/gpt", middleware.BodyLimit(64<<10), NewResearchHandler(a).Answer)
	return r
}

func doPost(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/gpt", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResearchHandler_Success(t *testing.T) {
	a := &fakeAnswerer{answer: &research.Answer{Text: "Triptans [1]."}}
	w := doPost(newTestEngine(a), `{"text":"What are treatments for migraines?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":"Triptans [1]."}`, w.Body.String())
	assert.Equal(t, "What are treatments for migraines?", a.got)
	assert.NoError(t, a.ctxErr)
}

func TestResearchHandler_InvalidBody(t *testing.T) {
	a := &fakeAnswerer{}
	w := doPost(newTestEngine(a), `{"text":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
	assert.Empty(t, a.got)
}

func TestResearchHandler_BodyTooLarge(t *testing.T) {
	a := &fakeAnswerer{}
	body := `{"text":"` + strings.Repeat("a", 70<<10) + `"}`
	w := doPost(newTestEngine(a), body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"request body too large"}`, w.Body.String())
}

func TestResearchHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "missing text",
			err:    research.NewValidationError("text is required"),
			status: http.StatusBadRequest,
			body:   `{"error":"text is required"}`,
		},
		{
			name:   "retrieval with upstream status",
			err:    research.NewRetrievalError(statusErr{code: 401}),
			status: http.StatusInternalServerError,
			body:   `{"error":"401: Invalid API key"}`,
		},
		{
			name:   "synthesis without status",
			err:    research.NewSynthesisError(errors.New("connection reset")),
			status: http.StatusInternalServerError,
			body:   `{"error":"connection reset"}`,
		},
		{
			name:   "timeout",
			err:    research.NewTimeoutError(context.DeadlineExceeded),
			status: http.StatusGatewayTimeout,
			body:   `{"error":"request timed out"}`,
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   `{"error":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doPost(newTestEngine(&fakeAnswerer{err: tt.err}), `{"text":"q"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
