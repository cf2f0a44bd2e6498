// Package retriever 提供向量检索能力
// 同一接口覆盖 Pinecone 云端索引与本地文件索引两种后端
package retriever

import (
	"context"

	"github.com/agentxhq/agentx/internal/service/types"
)

// Retriever 根据查询文本返回最相关的文档片段
// 返回的切片按相似度降序排列
type Retriever interface {
	GetRelevant(ctx context.Context, query string) ([]types.Document, error)
}
