package retriever

import (
	"context"
	"errors"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/agentxhq/agentx/internal/service/embedding"
	"github.com/agentxhq/agentx/internal/service/types"
)

// ErrNoIndexData 本地索引尚未上传任何文件
// 调用方据此返回引导用户上传的提示，而不是报错
var ErrNoIndexData = errors.New("no data in vector index")

// LocalStore 基于进程内向量库的本地索引
// 每次构建时从索引最新上传的文件分块建库，对应云端索引的轻量替代
type LocalStore struct {
	collection *chromem.Collection
	topK       int
}

// NewLocalStore 从文件内容构建本地向量库
// filePath 为空说明索引还没有文件，返回 ErrNoIndexData
func NewLocalStore(ctx context.Context, embedder embedding.Provider, topK int, filePath string) (*LocalStore, error) {
	if filePath == "" {
		return nil, ErrNoIndexData
	}

	text, err := LoadFile(filePath)
	if err != nil {
		return nil, err
	}

	chunks := NewSplitter().Split(text)
	if len(chunks) == 0 {
		return nil, ErrNoIndexData
	}

	embedFn := chromem.EmbeddingFunc(func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	})

	db := chromem.NewDB()
	col, err := db.CreateCollection("index", nil, embedFn)
	if err != nil {
		return nil, types.Internalf("failed to create local vector collection")
	}

	for i, chunk := range chunks {
		doc := chromem.Document{
			ID:      fmt.Sprintf("chunk-%d", i),
			Content: chunk,
		}
		if err := col.AddDocument(ctx, doc); err != nil {
			return nil, types.Providerf("failed to index document chunk %d", i)
		}
	}

	return &LocalStore{collection: col, topK: topK}, nil
}

// GetRelevant 返回与查询最相似的 topK 个分块
func (s *LocalStore) GetRelevant(ctx context.Context, query string) ([]types.Document, error) {
	k := s.topK
	if count := s.collection.Count(); k > count {
		k = count
	}
	if k == 0 {
		return nil, ErrNoIndexData
	}

	results, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, types.Providerf("local vector query failed")
	}

	docs := make([]types.Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, types.Document{
			ID:      r.ID,
			Content: r.Content,
			Score:   float64(r.Similarity),
		})
	}
	return docs, nil
}

var _ Retriever = (*LocalStore)(nil)
