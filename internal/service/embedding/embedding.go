// Package embedding 提供向量化模型封装
package embedding

import (
	"context"
	"strings"

	hfembed "github.com/tmc/langchaingo/embeddings/huggingface"
	hfllm "github.com/tmc/langchaingo/llms/huggingface"

	"github.com/agentxhq/agentx/internal/service/types"
)

// Provider 将文本转换为定长向量，供相似度检索使用
type Provider interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

// DefaultModel 默认句向量模型
const DefaultModel = "sentence-transformers/all-mpnet-base-v2"

// ResolveModel 解析索引配置的向量化模型名
// 未设置或形如裸提供商名（"openai"、"gemini" 等，不含 "/" 的值）
// 不是合法的句向量模型，替换为默认模型
func ResolveModel(modelID string) string {
	modelID = strings.TrimSpace(modelID)
	if modelID == "" || !strings.Contains(modelID, "/") {
		return DefaultModel
	}
	return modelID
}

// huggingFaceProvider 通过 HuggingFace 推理接口做向量化
type huggingFaceProvider struct {
	embedder *hfembed.Huggingface
	modelID  string
}

// NewHuggingFace 创建 HuggingFace 向量化提供商
// token 为空时依赖 HUGGINGFACEHUB_API_TOKEN 环境变量
func NewHuggingFace(modelID, token string) (Provider, error) {
	modelID = ResolveModel(modelID)

	opts := []hfembed.Option{
		hfembed.WithModel(modelID),
		hfembed.WithTask("feature-extraction"),
	}
	if token != "" {
		client, err := hfllm.New(hfllm.WithToken(token))
		if err != nil {
			return nil, types.Providerf("failed to create huggingface embedding client for model %q", modelID)
		}
		opts = append(opts, hfembed.WithClient(*client))
	}

	embedder, err := hfembed.NewHuggingface(opts...)
	if err != nil {
		return nil, types.Providerf("failed to create huggingface embedder for model %q", modelID)
	}

	return &huggingFaceProvider{embedder: embedder, modelID: modelID}, nil
}

// EmbedQuery 向量化单条查询文本
func (p *huggingFaceProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, types.Providerf("embedding query failed for model %q", p.modelID)
	}
	return vec, nil
}

// EmbedDocuments 向量化一批文档文本
func (p *huggingFaceProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, types.Providerf("embedding documents failed for model %q", p.modelID)
	}
	return vecs, nil
}

// ModelID 返回模型标识
func (p *huggingFaceProvider) ModelID() string {
	return p.modelID
}
