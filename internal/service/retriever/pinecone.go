package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/agentxhq/agentx/internal/service/embedding"
	"github.com/agentxhq/agentx/internal/service/types"
)

// PineconeStore 封装一个 Pinecone serverless 索引
// 同时承担检索（GetRelevant）与写入（CreateIndex/UpsertChunks/DeleteIndex）
type PineconeStore struct {
	client    *pinecone.Client
	indexName string
	topK      int
	embedder  embedding.Provider
}

// NewPineconeStore 创建 Pinecone 索引封装
func NewPineconeStore(apiKey, indexName string, topK int, embedder embedding.Provider) (*PineconeStore, error) {
	if apiKey == "" {
		return nil, types.Configurationf("pinecone api key is required")
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, types.Providerf("failed to create pinecone client")
	}

	return &PineconeStore{
		client:    client,
		indexName: indexName,
		topK:      topK,
		embedder:  embedder,
	}, nil
}

// connect 根据索引名解析 host 并建立连接
func (s *PineconeStore) connect(ctx context.Context) (*pinecone.IndexConnection, error) {
	index, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, types.Providerf("failed to describe pinecone index %q", s.indexName)
	}

	conn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host: index.Host,
	})
	if err != nil {
		return nil, types.Providerf("failed to connect to pinecone index %q", s.indexName)
	}
	return conn, nil
}

// GetRelevant 向量化查询并返回 topK 条最相似的片段
func (s *PineconeStore) GetRelevant(ctx context.Context, query string) ([]types.Document, error) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	resp, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(s.topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, types.Providerf("failed to query pinecone index %q", s.indexName)
	}

	docs := make([]types.Document, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		if match.Vector == nil {
			continue
		}
		metadata := map[string]interface{}{}
		if match.Vector.Metadata != nil {
			metadata = match.Vector.Metadata.AsMap()
		}
		content, _ := metadata["text"].(string)
		docs = append(docs, types.Document{
			ID:       match.Vector.Id,
			Content:  content,
			Score:    float64(match.Score),
			Metadata: metadata,
		})
	}
	return docs, nil
}

// CreateIndex 创建 serverless 索引，已存在时直接复用
func (s *PineconeStore) CreateIndex(ctx context.Context, dimension int32, metric, cloud, region string) error {
	if _, err := s.client.DescribeIndex(ctx, s.indexName); err == nil {
		return nil
	}

	_, err := s.client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:      s.indexName,
		Dimension: dimension,
		Metric:    parseMetric(metric),
		Cloud:     parseCloud(cloud),
		Region:    region,
	})
	if err != nil {
		return types.Providerf("failed to create pinecone index %q", s.indexName)
	}
	return nil
}

// UpsertChunks 向量化分块并批量写入索引
// 片段原文存入 metadata 的 text 字段，供检索时还原
func (s *PineconeStore) UpsertChunks(ctx context.Context, fileID string, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return types.Providerf("embedding count mismatch for pinecone upsert")
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	records := make([]*pinecone.Vector, 0, len(chunks))
	for i, chunk := range chunks {
		metadata, err := structpb.NewStruct(map[string]interface{}{
			"text":    chunk,
			"file_id": fileID,
		})
		if err != nil {
			return types.Internalf("failed to build chunk metadata")
		}
		records = append(records, &pinecone.Vector{
			Id:       fmt.Sprintf("%s-%d", fileID, i),
			Values:   vectors[i],
			Metadata: metadata,
		})
	}

	// 按批写入，避免单次请求过大
	const batchSize = 100
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if _, err := conn.UpsertVectors(ctx, records[start:end]); err != nil {
			return types.Providerf("failed to upsert vectors into pinecone index %q", s.indexName)
		}
	}
	return nil
}

// DeleteIndex 删除云端索引，索引不存在时视为成功
func (s *PineconeStore) DeleteIndex(ctx context.Context) error {
	err := s.client.DeleteIndex(ctx, s.indexName)
	if err != nil && !strings.Contains(err.Error(), "not found") {
		return types.Providerf("failed to delete pinecone index %q", s.indexName)
	}
	return nil
}

func parseMetric(metric string) pinecone.IndexMetric {
	switch strings.ToLower(metric) {
	case "dotproduct":
		return pinecone.Dotproduct
	case "euclidean":
		return pinecone.Euclidean
	default:
		return pinecone.Cosine
	}
}

func parseCloud(cloud string) pinecone.Cloud {
	switch strings.ToLower(cloud) {
	case "gcp":
		return pinecone.Gcp
	case "azure":
		return pinecone.Azure
	default:
		return pinecone.Aws
	}
}

var _ Retriever = (*PineconeStore)(nil)
