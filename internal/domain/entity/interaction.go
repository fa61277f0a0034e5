// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Interaction 一次完整问答交互的审计记录，只追加不修改
type Interaction struct {
	ID         string `json:"id" gorm:"type:uuid;primaryKey"`
	InputText  string `json:"input_text" gorm:"type:text;not null"`
	OutputText string `json:"output_text" gorm:"type:text;not null"`
	// RefinedQuery 发生重查询时使用的查询文本
	RefinedQuery *string `json:"refined_query,omitempty" gorm:"type:text"`
	// Queries 按执行顺序记录每一轮实际检索的查询
	Queries   pq.StringArray `json:"queries" gorm:"type:text[]"`
	Depth     int            `json:"depth" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at" gorm:"index;not null"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// NewInteraction 创建交互记录；queries 的第一个元素为原始查询
func NewInteraction(inputText, outputText string, queries []string) *Interaction {
	it := &Interaction{
		ID:         uuid.NewString(),
		InputText:  inputText,
		OutputText: outputText,
		Queries:    pq.StringArray(append([]string(nil), queries...)),
	}
	if len(queries) > 1 {
		refined := strings.TrimSpace(queries[len(queries)-1])
		it.RefinedQuery = &refined
		it.Depth = len(queries) - 1
	}
	return it
}

// EnsureCreatedAt 未设置时间戳时以写入时刻补齐
func (i *Interaction) EnsureCreatedAt(now time.Time) {
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now.UTC()
	}
}
