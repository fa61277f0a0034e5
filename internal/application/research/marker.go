package research

import (
	"fmt"
	"regexp"
	"strings"
)

// 默认重查询标记
const (
	DefaultMarkerOpen  = "<<"
	DefaultMarkerClose = ">>"
)

// MarkerProtocol 模型输出与控制器之间的重查询文本约定：
// 模型在来源质量不足时输出 open + 新查询 + close，控制器取第一处非贪婪匹配
type MarkerProtocol struct {
	open    string
	close   string
	pattern *regexp.Regexp
}

// NewMarkerProtocol 根据配置的分隔符构建标记协议
func NewMarkerProtocol(open, close string) (*MarkerProtocol, error) {
	if open == "" || close == "" {
		return nil, fmt.Errorf("marker delimiters must not be empty")
	}
	expr := "(?s)" + regexp.QuoteMeta(open) + "(.*?)" + regexp.QuoteMeta(close)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile marker pattern: %w", err)
	}
	return &MarkerProtocol{open: open, close: close, pattern: re}, nil
}

// MustMarkerProtocol 同 NewMarkerProtocol，失败时 panic
func MustMarkerProtocol(open, close string) *MarkerProtocol {
	p, err := NewMarkerProtocol(open, close)
	if err != nil {
		panic(err)
	}
	return p
}

// Open 返回起始分隔符
func (p *MarkerProtocol) Open() string { return p.open }

// Close 返回结束分隔符
func (p *MarkerProtocol) Close() string { return p.close }

// Extract 返回第一处标记内的查询文本；内部为空白视为无标记
func (p *MarkerProtocol) Extract(text string) (string, bool) {
	m := p.pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	q := strings.TrimSpace(m[1])
	if q == "" {
		return "", false
	}
	return q, true
}

// Strip 移除全部标记片段并整理首尾空白
func (p *MarkerProtocol) Strip(text string) string {
	return strings.TrimSpace(p.pattern.ReplaceAllString(text, ""))
}
