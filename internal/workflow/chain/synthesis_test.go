package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply    *schema.Message
	err      error
	received []*schema.Message
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.received = input
	return m.reply, m.err
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

type fakeFactory struct {
	model model.BaseChatModel
	err   error
	names []string
}

func (f *fakeFactory) Get(_ context.Context, name string) (model.BaseChatModel, error) {
	f.names = append(f.names, name)
	return f.model, f.err
}

func TestSynthesisChain_ReturnsRawContent(t *testing.T) {
	cm := &fakeChatModel{reply: schema.AssistantMessage("Answer [1]. <<maybe>>", nil)}
	factory := &fakeFactory{model: cm}
	c := NewSynthesisChain(factory, "openai", "<<", ">>")

	out, err := c.Synthesize(context.Background(), "migraine", "Result 1:\nTitle: T")
	require.NoError(t, err)
	assert.Equal(t, "Answer [1]. <<maybe>>", out)
	assert.Equal(t, []string{"openai"}, factory.names)

	require.Len(t, cm.received, 2)
	assert.Equal(t, schema.System, cm.received[0].Role)
	assert.Contains(t, cm.received[0].Content, "<<your improved query>>")
	assert.Equal(t, "query: migraine\n\ndata: Result 1:\nTitle: T", cm.received[1].Content)
}

func TestSynthesisChain_CustomMarkersInInstruction(t *testing.T) {
	cm := &fakeChatModel{reply: schema.AssistantMessage("ok", nil)}
	c := NewSynthesisChain(&fakeFactory{model: cm}, "", "[[", "]]")

	_, err := c.Synthesize(context.Background(), "q", "")
	require.NoError(t, err)
	assert.Contains(t, cm.received[0].Content, "[[your improved query]]")
}

func TestSynthesisChain_EmptyResponse(t *testing.T) {
	for _, reply := range []*schema.Message{nil, schema.AssistantMessage("  ", nil)} {
		c := NewSynthesisChain(&fakeFactory{model: &fakeChatModel{reply: reply}}, "openai", "<<", ">>")
		_, err := c.Synthesize(context.Background(), "q", "ctx")
		assert.ErrorIs(t, err, errEmptyResponse)
	}
}

func TestSynthesisChain_UpstreamStatus(t *testing.T) {
	apiErr := errors.New("error, status code: 429, status: 429 Too Many Requests, message: Rate limit reached")
	c := NewSynthesisChain(&fakeFactory{model: &fakeChatModel{err: apiErr}}, "openai", "<<", ">>")

	_, err := c.Synthesize(context.Background(), "q", "ctx")
	require.Error(t, err)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 429, ue.HTTPStatus())
	assert.ErrorIs(t, err, apiErr)
}

func TestSynthesisChain_FactoryError(t *testing.T) {
	c := NewSynthesisChain(&fakeFactory{err: errors.New("provider x not found")}, "x", "<<", ">>")
	_, err := c.Synthesize(context.Background(), "q", "ctx")
	assert.EqualError(t, err, "provider x not found")
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, 401, statusFromError(errors.New("error, status code: 401, message: bad key")))
	assert.Equal(t, 0, statusFromError(errors.New("dial tcp: connection refused")))
}
