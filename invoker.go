package conform

import (
	"context"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Roles for completion messages.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged entry in a completion conversation.
type Message struct {
	Role    string
	Content string
}

// CompletionRequest carries everything an Invoker needs for one model call.
type CompletionRequest struct {
	Model       string
	Temperature float64
	Messages    []Message
}

// Invoker abstracts the completion provider so it can be mocked, cached, or
// swapped per deployment. Implementations own authentication and transport;
// errors they return are treated as fatal by the retry loop.
type Invoker interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAIInvoker implements Invoker over the official openai-go SDK
// (chat completions).
type OpenAIInvoker struct {
	opts []option.RequestOption
}

// NewOpenAIInvoker builds an invoker from openai-go request options, e.g.
// option.WithAPIKey and option.WithBaseURL.
func NewOpenAIInvoker(opts ...option.RequestOption) *OpenAIInvoker {
	return &OpenAIInvoker{opts: opts}
}

func (o *OpenAIInvoker) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	client := openai.NewClient(o.opts...)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
