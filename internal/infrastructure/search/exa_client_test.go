package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-ai-api/internal/config"
)

func testConfig(endpoint string) *config.SearchConfig {
	return &config.SearchConfig{
		Endpoint:       endpoint,
		APIKey:         "exa-test-key",
		NumResults:     2,
		IncludeDomains: []string{"nih.gov", "mayoclinic.org"},
		UseAutoprompt:  true,
		Highlights:     config.HighlightConfig{NumSentences: 3, PerURL: 2},
	}
}

func TestExaClient_Retrieve(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "exa-test-key", r.Header.Get("x-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"autopromptString": "migraine treatments",
			"results": [
				{"id": "1", "title": "NIH", "url": "https://www.ninds.nih.gov/migraine", "score": 0.9,
				 "highlights": ["Triptans."], "highlightScores": [0.4]},
				{"id": "2", "title": "Blog", "url": "https://example.com/migraine", "score": 0.8},
				{"id": "3", "title": "Mayo", "url": "https://mayoclinic.org/m", "score": 0.7,
				 "publishedDate": "2022-01-01", "author": "Staff"},
				{"id": "4", "title": "Extra", "url": "https://nih.gov/extra", "score": 0.6}
			]
		}`))
	}))
	defer srv.Close()

	c := NewExaClientWithHTTP(testConfig(srv.URL+"/"), srv.Client())
	resp, err := c.Retrieve(context.Background(), "migraine treatments")
	require.NoError(t, err)

	assert.Equal(t, "migraine treatments", got.Query)
	assert.Equal(t, 2, got.NumResults)
	assert.Equal(t, []string{"nih.gov", "mayoclinic.org"}, got.IncludeDomains)
	assert.True(t, got.UseAutoprompt)
	assert.Equal(t, 3, got.Contents.Highlights.NumSentences)
	assert.Equal(t, 2, got.Contents.Highlights.HighlightsPerURL)

	require.Equal(t, 2, resp.Len())
	assert.Equal(t, "1", resp.Results[0].ID)
	assert.Equal(t, []string{"Triptans."}, resp.Results[0].Highlights)
	assert.Equal(t, []float64{0.4}, resp.Results[0].HighlightScores)
	assert.Equal(t, "3", resp.Results[1].ID)
	assert.Equal(t, "Staff", resp.Results[1].Author)
	assert.Equal(t, "migraine treatments", resp.AutopromptString)
}

func TestExaClient_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	resp, err := NewExaClientWithHTTP(testConfig(srv.URL), srv.Client()).Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Len())
}

func TestExaClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := NewExaClientWithHTTP(testConfig(srv.URL), srv.Client()).Retrieve(context.Background(), "q")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.HTTPStatus())
	assert.Equal(t, "Invalid API key", se.Error())
}

func TestExaClient_StatusErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewExaClientWithHTTP(testConfig(srv.URL), srv.Client()).Retrieve(context.Background(), "q")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Bad Gateway", se.Message)
}

func TestExaClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	_, err := NewExaClientWithHTTP(testConfig(srv.URL), srv.Client()).Retrieve(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode search response")
}

func TestExaClient_AllowedHosts(t *testing.T) {
	c := NewExaClientWithHTTP(&config.SearchConfig{IncludeDomains: []string{" NIH.gov ", "who.int"}}, http.DefaultClient)

	assert.True(t, c.allowed("https://nih.gov/a"))
	assert.True(t, c.allowed("https://pubmed.ncbi.nlm.nih.gov/123"))
	assert.True(t, c.allowed("https://WWW.WHO.INT/news"))
	assert.False(t, c.allowed("https://notnih.gov/a"))
	assert.False(t, c.allowed("https://nih.gov.evil.com/a"))
	assert.False(t, c.allowed("not a url"))

	open := NewExaClientWithHTTP(&config.SearchConfig{}, http.DefaultClient)
	assert.True(t, open.allowed("https://anything.example"))
}
