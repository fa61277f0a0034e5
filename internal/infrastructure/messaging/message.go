package messaging

import (
	"encoding/json"
	"time"
)

// Message 流消息信封
type Message struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewMessage 创建新消息
func NewMessage(id, msgType string, payload any) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:        id,
		Type:      msgType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetMetadata 设置元数据
func (m *Message) SetMetadata(key, value string) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
}

// UnmarshalPayload 解析消息载荷
func (m *Message) UnmarshalPayload(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// Stream 流名称
type Stream string

// StreamInteractions 交互记录事件流默认名称
const StreamInteractions Stream = "stream:research:interactions"

// MessageTypeInteractionRecorded 交互记录写入成功事件
const MessageTypeInteractionRecorded = "interaction.recorded"

// InteractionRecordedMessage 交互记录事件载荷
type InteractionRecordedMessage struct {
	InteractionID string    `json:"interaction_id"`
	InputText     string    `json:"input_text"`
	OutputText    string    `json:"output_text"`
	RefinedQuery  string    `json:"refined_query,omitempty"`
	Queries       []string  `json:"queries"`
	Depth         int       `json:"depth"`
	CreatedAt     time.Time `json:"created_at"`
}
