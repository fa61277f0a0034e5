package entity

// RetrievalResult 检索服务返回的单条结果
// Highlights 与 HighlightScores 同时存在时长度一致，二者均可缺失
type RetrievalResult struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	PublishedDate   string    `json:"published_date,omitempty"`
	Author          string    `json:"author,omitempty"`
	Score           float64   `json:"score"`
	Highlights      []string  `json:"highlights,omitempty"`
	HighlightScores []float64 `json:"highlight_scores,omitempty"`
}

// RetrievalResponse 按检索服务给出的相关度顺序排列，本地不重排
type RetrievalResponse struct {
	Results          []RetrievalResult `json:"results"`
	AutopromptString string            `json:"autoprompt_string,omitempty"`
}

// Len 返回结果数量
func (r *RetrievalResponse) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Results)
}
