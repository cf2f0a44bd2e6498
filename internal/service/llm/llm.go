// Package llm 提供统一的大模型调用封装
// 按提供商分发到 HuggingFace、OpenAI、Gemini 三种实现
package llm

import (
	"context"

	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/service/types"
)

// Client 以完整提示词换取生成文本
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory 根据 Agent 的提供商配置创建客户端
// 测试通过替换该类型注入脚本化模型
type Factory func(provider, modelName, apiKey string) (Client, error)

// huggingFaceModels 托管推理接口验证过的模型
var huggingFaceModels = map[string]bool{
	"mistralai/Mistral-7B-Instruct-v0.2":   true,
	"mistralai/Mixtral-8x7B-Instruct-v0.1": true,
	"HuggingFaceH4/zephyr-7b-beta":         true,
	"google/flan-t5-xxl":                   true,
	"tiiuae/falcon-7b-instruct":            true,
}

// geminiModels 支持的 Gemini 模型
var geminiModels = map[string]bool{
	"gemini-1.5-pro":        true,
	"gemini-1.5-flash":      true,
	"gemini-2.0-flash":      true,
	"gemini-2.0-flash-lite": true,
}

// New 按提供商创建客户端
// 模型名不在白名单时，在任何网络调用之前返回校验错误
func New(provider, modelName, apiKey string) (Client, error) {
	switch provider {
	case model.ProviderHuggingFace:
		if !huggingFaceModels[modelName] {
			return nil, types.Validationf("huggingface model %q is not supported", modelName)
		}
		return newHuggingFaceClient(modelName, apiKey)
	case model.ProviderOpenAI:
		return newOpenAIClient(modelName, apiKey), nil
	case model.ProviderGemini:
		if !geminiModels[modelName] {
			return nil, types.Validationf("gemini model %q is not supported", modelName)
		}
		return newGeminiClient(modelName, apiKey), nil
	default:
		return nil, types.NotImplementedf("llm provider %q is not supported", provider)
	}
}
