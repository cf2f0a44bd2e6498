package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/agentxhq/agentx/internal/service/types"
)

// openAIClient 调用 OpenAI chat completion 接口
type openAIClient struct {
	client    *openai.Client
	modelName string
}

func newOpenAIClient(modelName, apiKey string) Client {
	return &openAIClient{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
	}
}

// Generate 以单条 user 消息发起对话补全
func (c *openAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.8,
		MaxTokens:   256,
	})
	if err != nil {
		return "", types.Providerf("openai generation failed for model %q", c.modelName)
	}
	if len(resp.Choices) == 0 {
		return "", types.Providerf("openai returned no choices for model %q", c.modelName)
	}
	return resp.Choices[0].Message.Content, nil
}
