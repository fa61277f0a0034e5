package research

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"research-ai-api/internal/domain/entity"
)

func sampleResponse() *entity.RetrievalResponse {
	return &entity.RetrievalResponse{
		Results: []entity.RetrievalResult{
			{
				ID:              "doc-1",
				Title:           "Migraine treatment overview",
				URL:             "https://www.mayoclinic.org/migraine",
				PublishedDate:   "2023-05-01",
				Author:          "Mayo Staff",
				Score:           0.91234,
				Highlights:      []string{"Triptans relieve pain.", "Rest in a dark room."},
				HighlightScores: []float64{0.5, 0.25},
			},
			{
				ID:    "doc-2",
				Title: "Preventive therapy",
				URL:   "https://www.nih.gov/prevent",
				Score: 0.8,
			},
		},
	}
}

func TestFormatResults_Layout(t *testing.T) {
	got := FormatResults(sampleResponse())

	want := "Result 1:\n" +
		"Title: Migraine treatment overview\n" +
		"URL: https://www.mayoclinic.org/migraine\n" +
		"Published Date: 2023-05-01\n" +
		"Author: Mayo Staff\n" +
		"ID: doc-1\n" +
		"Score: 0.912\n" +
		"Highlights:\n" +
		"- Triptans relieve pain. (score: 0.500)\n" +
		"- Rest in a dark room. (score: 0.250)" +
		"\n\n" +
		"Result 2:\n" +
		"Title: Preventive therapy\n" +
		"URL: https://www.nih.gov/prevent\n" +
		"Published Date: Unknown\n" +
		"Author: Unknown\n" +
		"ID: doc-2\n" +
		"Score: 0.800\n" +
		"Highlights:"

	assert.Equal(t, want, got)
}

func TestFormatResults_EmptyInput(t *testing.T) {
	assert.Equal(t, "", FormatResults(nil))
	assert.Equal(t, "", FormatResults(&entity.RetrievalResponse{}))
}

func TestFormatResults_OneBlockPerResultInOrder(t *testing.T) {
	for n := 0; n <= 5; n++ {
		resp := &entity.RetrievalResponse{}
		for i := 0; i < n; i++ {
			resp.Results = append(resp.Results, entity.RetrievalResult{
				ID:    string(rune('a' + i)),
				Title: "title-" + string(rune('a'+i)),
			})
		}

		got := FormatResults(resp)
		if n == 0 {
			assert.Empty(t, got)
			continue
		}
		blocks := strings.Split(got, "\n\n")
		assert.Len(t, blocks, n)
		for i, block := range blocks {
			assert.True(t, strings.HasPrefix(block, "Result "+string(rune('1'+i))+":\n"), block)
			assert.Contains(t, block, "Title: title-"+string(rune('a'+i)))
		}
	}
}

func TestFormatResults_MismatchedHighlightScores(t *testing.T) {
	resp := &entity.RetrievalResponse{Results: []entity.RetrievalResult{{
		ID:              "x",
		Highlights:      []string{"first", "second"},
		HighlightScores: []float64{0.1},
	}, {
		ID:              "y",
		HighlightScores: []float64{0.4, 0.3},
	}}}

	got := FormatResults(resp)
	assert.Contains(t, got, "- first (score: 0.100)")
	assert.Contains(t, got, "- second\n")
	assert.NotContains(t, got, "0.400")
}

func TestFormatResults_Idempotent(t *testing.T) {
	resp := sampleResponse()
	assert.Equal(t, FormatResults(resp), FormatResults(resp))
}
