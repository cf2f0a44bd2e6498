package llm

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	hf "github.com/tmc/langchaingo/llms/huggingface"

	"github.com/agentxhq/agentx/internal/service/types"
)

// huggingFaceClient 调用 HuggingFace 托管推理接口
type huggingFaceClient struct {
	llm       *hf.LLM
	modelName string
}

func newHuggingFaceClient(modelName, token string) (Client, error) {
	opts := []hf.Option{hf.WithModel(modelName)}
	if token != "" {
		opts = append(opts, hf.WithToken(token))
	}

	client, err := hf.New(opts...)
	if err != nil {
		return nil, types.Providerf("failed to create huggingface client for model %q", modelName)
	}
	return &huggingFaceClient{llm: client, modelName: modelName}, nil
}

// Generate 以文本补全方式生成
func (c *huggingFaceClient) Generate(ctx context.Context, prompt string) (string, error) {
	output, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(0.8),
		llms.WithTopK(50),
	)
	if err != nil {
		return "", types.Providerf("huggingface generation failed for model %q", c.modelName)
	}
	return output, nil
}
