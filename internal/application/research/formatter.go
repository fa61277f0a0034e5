package research

import (
	"strconv"
	"strings"

	"research-ai-api/internal/domain/entity"
)

const unknownPlaceholder = "Unknown"

// FormatResults 将检索结果按原始顺序拼接为注入 Prompt 的纯文本块
// 纯函数：相同输入得到逐字节相同的输出，空输入返回空串
func FormatResults(resp *entity.RetrievalResponse) string {
	if resp.Len() == 0 {
		return ""
	}

	blocks := make([]string, 0, len(resp.Results))
	for i := range resp.Results {
		blocks = append(blocks, formatResult(i+1, &resp.Results[i]))
	}
	return strings.Join(blocks, "\n\n")
}

func formatResult(ordinal int, r *entity.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("Result ")
	b.WriteString(strconv.Itoa(ordinal))
	b.WriteString(":\n")
	writeField(&b, "Title", r.Title)
	writeField(&b, "URL", r.URL)
	writeField(&b, "Published Date", orUnknown(r.PublishedDate))
	writeField(&b, "Author", orUnknown(r.Author))
	writeField(&b, "ID", r.ID)
	writeField(&b, "Score", formatScore(r.Score))
	b.WriteString("Highlights:")
	for j, h := range r.Highlights {
		b.WriteString("\n- ")
		b.WriteString(h)
		if j < len(r.HighlightScores) {
			b.WriteString(" (score: ")
			b.WriteString(formatScore(r.HighlightScores[j]))
			b.WriteString(")")
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownPlaceholder
	}
	return s
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}
