package llm

import (
	"context"

	"google.golang.org/genai"

	"github.com/agentxhq/agentx/internal/service/types"
)

// geminiClient 调用 Google Gemini 接口
type geminiClient struct {
	modelName string
	apiKey    string
}

func newGeminiClient(modelName, apiKey string) Client {
	return &geminiClient{modelName: modelName, apiKey: apiKey}
}

// generationConfig Gemini 固定生成参数，中等强度安全过滤
func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0.7)),
		TopP:            genai.Ptr(float32(0.8)),
		TopK:            genai.Ptr(float32(40)),
		MaxOutputTokens: 2048,
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		},
	}
}

// Generate 以单轮 user 内容生成回答
func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", types.Providerf("failed to create gemini client for model %q", c.modelName)
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := client.Models.GenerateContent(ctx, c.modelName, contents, generationConfig())
	if err != nil {
		return "", types.Providerf("gemini generation failed for model %q", c.modelName)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", types.Providerf("gemini returned no candidates for model %q", c.modelName)
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out, nil
}
