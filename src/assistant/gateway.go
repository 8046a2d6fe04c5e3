package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/agencykit/assistant/src/agent"
	"github.com/agencykit/assistant/src/llmclient"
	"github.com/agencykit/assistant/src/storage"
)

// emptyReplyFallback is returned when the provider answers with no candidate
// text, so the conversation always gets a reply.
const emptyReplyFallback = "I don't have a useful answer for that right now. Could you rephrase or add detail?"

// maxHistoryMessages bounds how much conversation history is sent to the
// provider.
const maxHistoryMessages = 40

// CompletionClient is the slice of llmclient.Client the gateway needs.
// Tests substitute a stub.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req *llmclient.ChatCompletionRequest) (*llmclient.ChatCompletionResponse, error)
	Model() string
}

// GatewayOptions tune the completion request.
type GatewayOptions struct {
	Temperature float64
	MaxTokens   int
}

// Gateway wraps the completion provider behind the agent persona selection.
// It never writes to the message log; translating failures into user-facing
// messages is the chat service's job.
type Gateway struct {
	client      CompletionClient
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// NewGateway creates a completion gateway.
func NewGateway(client CompletionClient, opts GatewayOptions, logger *slog.Logger) *Gateway {
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client:      client,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		logger:      logger.With("component", "gateway"),
	}
}

// Complete produces the reply text for a conversation history under the given
// agent persona. Unknown agent ids fall back to the supervisor's prompt.
// Status and thinking entries are filtered out of the history before it is
// sent. Provider failures surface as GatewayError.
func (g *Gateway) Complete(ctx context.Context, agentID string, history []storage.Message) (string, llmclient.Usage, error) {
	def := agent.Lookup(agentID)

	msgs := make([]llmclient.Message, 0, len(history)+1)
	msgs = append(msgs, llmclient.Message{Role: "system", Content: def.SystemPrompt})

	text := filterText(history)
	if len(text) > maxHistoryMessages {
		text = text[len(text)-maxHistoryMessages:]
	}
	for _, m := range text {
		role := "user"
		if m.Author == storage.AuthorAgent {
			role = "assistant"
		}
		msgs = append(msgs, llmclient.Message{Role: role, Content: m.Text})
	}

	req := &llmclient.ChatCompletionRequest{
		Model:       g.client.Model(),
		Messages:    msgs,
		Temperature: &g.temperature,
		MaxTokens:   &g.maxTokens,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.Error("completion request failed", "agent", def.ID, "error", err)
		return "", llmclient.Usage{}, &GatewayError{Detail: "completion provider request failed", Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		g.logger.Warn("provider returned empty result", "agent", def.ID)
		return emptyReplyFallback, resp.Usage, nil
	}

	return resp.Choices[0].Message.Content, resp.Usage, nil
}

// filterText keeps only text-kind entries; status, form and thinking entries
// are never sent to the provider.
func filterText(history []storage.Message) []storage.Message {
	out := make([]storage.Message, 0, len(history))
	for _, m := range history {
		if m.Kind == storage.KindText {
			out = append(out, m)
		}
	}
	return out
}
