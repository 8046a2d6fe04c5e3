package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencykit/assistant/src/llmclient"
	"github.com/agencykit/assistant/src/storage"
)

// stubClient records the last request and replies with canned content.
type stubClient struct {
	lastReq *llmclient.ChatCompletionRequest
	reply   string
	usage   llmclient.Usage
	err     error
}

func (s *stubClient) CreateChatCompletion(ctx context.Context, req *llmclient.ChatCompletionRequest) (*llmclient.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	var choices []llmclient.Choice
	if s.reply != "" {
		choices = []llmclient.Choice{{Message: llmclient.Message{Role: "assistant", Content: s.reply}}}
	}
	return &llmclient.ChatCompletionResponse{Choices: choices, Usage: s.usage}, nil
}

func (s *stubClient) Model() string { return "test-model" }

func TestGatewayCompleteSelectsPromptAndFiltersHistory(t *testing.T) {
	client := &stubClient{reply: "done", usage: llmclient.Usage{TotalTokens: 7}}
	gw := NewGateway(client, GatewayOptions{}, nil)

	history := []storage.Message{
		{Author: storage.AuthorUser, Kind: storage.KindText, Text: "create a page"},
		{Author: storage.AuthorAgent, Kind: storage.KindStatus, Text: "working on it"},
		{Author: storage.AuthorAgent, Kind: storage.KindThinking, Text: "internal trace"},
		{Author: storage.AuthorAgent, Kind: storage.KindText, Text: "which page?"},
	}

	reply, usage, err := gw.Complete(context.Background(), "webEngineer", history)
	require.NoError(t, err)
	assert.Equal(t, "done", reply)
	assert.Equal(t, 7, usage.TotalTokens)

	req := client.lastReq
	require.NotNil(t, req)
	require.Len(t, req.Messages, 3, "system prompt plus the two text messages")
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Web Engineer")
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, "assistant", req.Messages[2].Role)
}

func TestGatewayCompleteUnknownAgentFallsBackToSupervisor(t *testing.T) {
	client := &stubClient{reply: "hello"}
	gw := NewGateway(client, GatewayOptions{}, nil)

	_, _, err := gw.Complete(context.Background(), "unknownAgent", []storage.Message{
		{Author: storage.AuthorUser, Kind: storage.KindText, Text: "hi"},
	})
	require.NoError(t, err)
	assert.Contains(t, client.lastReq.Messages[0].Content, "Chief of Staff")
}

func TestGatewayCompleteEmptyResultUsesFallback(t *testing.T) {
	client := &stubClient{reply: ""}
	gw := NewGateway(client, GatewayOptions{}, nil)

	reply, _, err := gw.Complete(context.Background(), "chief", []storage.Message{
		{Author: storage.AuthorUser, Kind: storage.KindText, Text: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, emptyReplyFallback, reply)
}

func TestGatewayCompleteWrapsProviderError(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	gw := NewGateway(client, GatewayOptions{}, nil)

	_, _, err := gw.Complete(context.Background(), "chief", []storage.Message{
		{Author: storage.AuthorUser, Kind: storage.KindText, Text: "hi"},
	})
	require.Error(t, err)

	var ge *GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, KindGateway, Kind(err))
}

func TestGatewayBoundsHistory(t *testing.T) {
	client := &stubClient{reply: "ok"}
	gw := NewGateway(client, GatewayOptions{}, nil)

	history := make([]storage.Message, 0, maxHistoryMessages+10)
	for i := 0; i < maxHistoryMessages+10; i++ {
		history = append(history, storage.Message{Author: storage.AuthorUser, Kind: storage.KindText, Text: "m"})
	}

	_, _, err := gw.Complete(context.Background(), "chief", history)
	require.NoError(t, err)
	assert.Len(t, client.lastReq.Messages, maxHistoryMessages+1, "history is truncated to the most recent entries")
}
