// Package index 提供向量索引的管理与数据摄取
package index

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentxhq/agentx/internal/config"
	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/embedding"
	"github.com/agentxhq/agentx/internal/service/retriever"
	"github.com/agentxhq/agentx/internal/service/types"
)

// Service 向量索引服务
type Service struct {
	repo  *repository.Repositories
	cfg   *config.Config
	media string

	newEmbedder func(modelID, token string) (embedding.Provider, error)
}

// NewService 创建索引服务
func NewService(repo *repository.Repositories, cfg *config.Config) *Service {
	return &Service{
		repo:        repo,
		cfg:         cfg,
		media:       cfg.Media.Dir,
		newEmbedder: embedding.NewHuggingFace,
	}
}

// CreateRequest 创建索引请求
type CreateRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=45"`
	Kind           string `json:"kind" binding:"required"`
	EmbeddingModel string `json:"embedding_model"`

	// Pinecone 专用字段
	PineconeAPIKey string `json:"pinecone_api_key"`
	Metric         string `json:"metric"`
	Cloud          string `json:"cloud"`
	Region         string `json:"region"`
	Dimension      int    `json:"dimension"`
}

// Create 创建向量索引
// Pinecone 类型同时创建远端 serverless 索引
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*model.VectorIndex, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind != model.IndexKindPinecone && kind != model.IndexKindFAISS {
		return nil, types.Validationf("vector index kind %q is not supported", req.Kind)
	}

	if existing, _ := s.repo.Index.GetByName(userID, req.Name); existing != nil {
		return nil, types.Validationf("vector index with name %q already exists", req.Name)
	}

	embeddingModel := embedding.ResolveModel(req.EmbeddingModel)

	index := &model.VectorIndex{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           req.Name,
		Kind:           kind,
		EmbeddingModel: embeddingModel,
	}

	if kind == model.IndexKindPinecone {
		if req.PineconeAPIKey == "" {
			return nil, types.Validationf("pinecone_api_key is required for pinecone indexes")
		}
		index.Pinecone = model.PineconeConfig{
			APIKey:    req.PineconeAPIKey,
			Metric:    defaultString(req.Metric, "cosine"),
			Cloud:     defaultString(req.Cloud, "aws"),
			Region:    defaultString(req.Region, "us-east-1"),
			Dimension: defaultInt(req.Dimension, 768),
		}

		store, err := retriever.NewPineconeStore(index.Pinecone.APIKey, index.Name, s.cfg.RAG.PineconeTopK, nil)
		if err != nil {
			return nil, err
		}
		if err := store.CreateIndex(ctx, int32(index.Pinecone.Dimension), index.Pinecone.Metric, index.Pinecone.Cloud, index.Pinecone.Region); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Index.Create(index); err != nil {
		return nil, fmt.Errorf("failed to create vector index: %w", err)
	}
	return index, nil
}

// Get 获取索引，校验归属
func (s *Service) Get(ctx context.Context, userID, indexID string) (*model.VectorIndex, error) {
	index, err := s.repo.Index.GetByID(indexID)
	if err != nil || index == nil {
		return nil, types.NotFoundf("vector index %q not found", indexID)
	}
	if index.UserID != userID {
		return nil, types.AccessDeniedf("vector index %q does not belong to current user", indexID)
	}
	return index, nil
}

// List 列出用户的全部索引
func (s *Service) List(ctx context.Context, userID string) ([]*model.VectorIndex, error) {
	indexes, err := s.repo.Index.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vector indexes: %w", err)
	}
	return indexes, nil
}

// Delete 删除索引
// Pinecone 类型同时删除远端索引，本地文件一并清理
func (s *Service) Delete(ctx context.Context, userID, indexID string) error {
	index, err := s.Get(ctx, userID, indexID)
	if err != nil {
		return err
	}

	if index.Kind == model.IndexKindPinecone && index.Pinecone.APIKey != "" {
		store, err := retriever.NewPineconeStore(index.Pinecone.APIKey, index.Name, s.cfg.RAG.PineconeTopK, nil)
		if err == nil {
			if err := store.DeleteIndex(ctx); err != nil {
				// 远端清理失败不阻塞本地删除
				log.Printf("Warning: failed to delete remote pinecone index %s: %v", index.Name, err)
			}
		}
	}

	if file, err := s.repo.Index.GetLatestFile(userID, indexID); err == nil && file != nil {
		_ = os.Remove(file.FilePath)
	}

	if err := s.repo.Index.Delete(indexID); err != nil {
		return fmt.Errorf("failed to delete vector index: %w", err)
	}
	return nil
}

// UploadFile 接收上传文件并写入索引
// 每个索引只保留最新一份文件，Pinecone 类型立即分块向量化入库
func (s *Service) UploadFile(ctx context.Context, userID, indexID string, fileHeader *multipart.FileHeader) (*model.FileUpload, error) {
	index, err := s.Get(ctx, userID, indexID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return nil, types.Validationf("unsupported file type %q, only .pdf and .txt are accepted", ext)
	}

	path, err := s.saveUpload(userID, fileHeader)
	if err != nil {
		return nil, err
	}

	file := &model.FileUpload{
		ID:       uuid.New().String(),
		UserID:   userID,
		IndexID:  indexID,
		FileName: fileHeader.Filename,
		FilePath: path,
	}

	// 替换旧文件记录并清理磁盘
	if old, err := s.repo.Index.GetLatestFile(userID, indexID); err == nil && old != nil {
		_ = os.Remove(old.FilePath)
	}
	if err := s.repo.Index.ReplaceFile(file); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to record uploaded file: %w", err)
	}

	if index.Kind == model.IndexKindPinecone {
		if err := s.ingest(ctx, index, file); err != nil {
			return nil, err
		}
	}
	return file, nil
}

// saveUpload 将上传内容落盘到媒体目录
func (s *Service) saveUpload(userID string, fileHeader *multipart.FileHeader) (string, error) {
	dir := filepath.Join(s.media, userID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", types.Internalf("failed to create media directory")
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(fileHeader.Filename))
	path := filepath.Join(dir, name)

	src, err := fileHeader.Open()
	if err != nil {
		return "", types.Internalf("failed to open uploaded file")
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", types.Internalf("failed to store uploaded file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", types.Internalf("failed to write uploaded file")
	}
	return path, nil
}

// ingest 分块、向量化并写入远端索引
func (s *Service) ingest(ctx context.Context, index *model.VectorIndex, file *model.FileUpload) error {
	text, err := retriever.LoadFile(file.FilePath)
	if err != nil {
		return err
	}

	chunks := retriever.NewSplitter().Split(text)
	if len(chunks) == 0 {
		return types.Validationf("uploaded file %q contains no extractable text", file.FileName)
	}

	embedder, err := s.newEmbedder(index.EmbeddingModel, s.cfg.RAG.HuggingFaceToken)
	if err != nil {
		return err
	}

	store, err := retriever.NewPineconeStore(index.Pinecone.APIKey, index.Name, s.cfg.RAG.PineconeTopK, embedder)
	if err != nil {
		return err
	}
	return store.UpsertChunks(ctx, file.ID, chunks)
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
