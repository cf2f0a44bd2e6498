// Package query 实现 RAG 查询编排
// 串联检索、提示词渲染、模型调用、回答抽取与会话持久化
package query

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/agentxhq/agentx/internal/config"
	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/agent"
	"github.com/agentxhq/agentx/internal/service/chat"
	"github.com/agentxhq/agentx/internal/service/embedding"
	"github.com/agentxhq/agentx/internal/service/llm"
	"github.com/agentxhq/agentx/internal/service/memory"
	"github.com/agentxhq/agentx/internal/service/retriever"
	"github.com/agentxhq/agentx/internal/service/types"
)

// noDataAnswer 本地索引没有文件时给用户的提示
const noDataAnswer = "Data Not Found. Please upload files to the index."

// EmbedderFactory 创建向量化提供商，测试时可替换
type EmbedderFactory func(modelID, token string) (embedding.Provider, error)

// RetrieverFactory 按索引类型创建检索器，测试时可替换
type RetrieverFactory func(ctx context.Context, index *model.VectorIndex, embedder embedding.Provider, filePath string, cfg *config.RAGConfig) (retriever.Retriever, error)

// Service RAG 查询服务
type Service struct {
	repo   *repository.Repositories
	agents *agent.Service
	chats  *chat.Service
	memory *memory.Manager
	cfg    *config.RAGConfig

	newEmbedder  EmbedderFactory
	newRetriever RetrieverFactory
	newLLM       llm.Factory
}

// NewService 创建查询服务
func NewService(repo *repository.Repositories, agents *agent.Service, chats *chat.Service, mem *memory.Manager, cfg *config.RAGConfig) *Service {
	return &Service{
		repo:         repo,
		agents:       agents,
		chats:        chats,
		memory:       mem,
		cfg:          cfg,
		newEmbedder:  embedding.NewHuggingFace,
		newRetriever: defaultRetrieverFactory,
		newLLM:       llm.New,
	}
}

// WithFactories 替换内部工厂，供测试注入脚本化实现
func (s *Service) WithFactories(newEmbedder EmbedderFactory, newRetriever RetrieverFactory, newLLM llm.Factory) *Service {
	if newEmbedder != nil {
		s.newEmbedder = newEmbedder
	}
	if newRetriever != nil {
		s.newRetriever = newRetriever
	}
	if newLLM != nil {
		s.newLLM = newLLM
	}
	return s
}

// Request 查询请求
// 部署查询入口会在服务端回填 AgentName，因此不在绑定层强制
type Request struct {
	AgentName string `json:"agent_name"`
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id"`
}

// defaultRetrieverFactory 按索引类型创建真实检索器
func defaultRetrieverFactory(ctx context.Context, index *model.VectorIndex, embedder embedding.Provider, filePath string, cfg *config.RAGConfig) (retriever.Retriever, error) {
	switch index.Kind {
	case model.IndexKindPinecone:
		if index.Pinecone.APIKey == "" {
			return nil, types.Configurationf("vector index %q has no pinecone credentials", index.Name)
		}
		return retriever.NewPineconeStore(index.Pinecone.APIKey, index.Name, cfg.PineconeTopK, embedder)
	case model.IndexKindFAISS:
		return retriever.NewLocalStore(ctx, embedder, cfg.FAISSTopK, filePath)
	default:
		return nil, types.Configurationf("unsupported vector index kind %q", index.Kind)
	}
}

// Query 执行一次 RAG 查询
// 回答抽取成功后才持久化本轮问答，失败的查询不影响会话历史
func (s *Service) Query(ctx context.Context, userID string, req *Request) (*types.QueryResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, types.Validationf("question must not be empty")
	}
	if strings.TrimSpace(req.AgentName) == "" {
		return nil, types.Validationf("agent_name must not be empty")
	}

	// 解析智能体与索引配置
	ag, err := s.repo.Agent.GetByName(userID, req.AgentName)
	if err != nil || ag == nil {
		return nil, types.NotFoundf("agent %q not found", req.AgentName)
	}
	index, err := s.agents.ResolveIndex(ctx, ag)
	if err != nil {
		return nil, err
	}

	// 已有会话先校验归属并加载记忆
	var session *model.ChatSession
	var history []types.MemoryTurn
	if req.SessionID != "" {
		session, err = s.chats.GetSession(ctx, userID, req.SessionID)
		if err != nil {
			return nil, err
		}
		if session.AgentID != ag.ID {
			return nil, types.Validationf("session %s belongs to a different agent", session.ID)
		}
		history, err = s.memory.Recent(ctx, session.ID)
		if err != nil {
			return nil, err
		}
	}

	// 向量化与检索先于模型调用
	embedder, err := s.newEmbedder(index.EmbeddingModel, s.cfg.HuggingFaceToken)
	if err != nil {
		return nil, err
	}

	var filePath string
	if index.Kind == model.IndexKindFAISS {
		if file, err := s.repo.Index.GetLatestFile(userID, index.ID); err == nil && file != nil {
			filePath = file.FilePath
		}
	}

	retrievalCtx, cancelRetrieval := context.WithTimeout(ctx, time.Duration(s.cfg.RetrievalTimeout)*time.Second)
	defer cancelRetrieval()

	ret, err := s.newRetriever(retrievalCtx, index, embedder, filePath, s.cfg)
	if err != nil {
		if errors.Is(err, retriever.ErrNoIndexData) {
			return s.result(noDataAnswer, question, req.SessionID), nil
		}
		return nil, err
	}

	docs, err := ret.GetRelevant(retrievalCtx, question)
	if err != nil {
		if errors.Is(err, retriever.ErrNoIndexData) {
			return s.result(noDataAnswer, question, req.SessionID), nil
		}
		return nil, err
	}
	contextText := joinDocuments(docs)

	// 模型调用
	client, err := s.newLLM(ag.LLMProvider, ag.LLMModelName, ag.LLMAPIKey)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(ag.PromptTemplate, history, contextText, question)

	llmCtx, cancelLLM := context.WithTimeout(ctx, time.Duration(s.cfg.LLMTimeout)*time.Second)
	defer cancelLLM()

	raw, err := client.Generate(llmCtx, prompt)
	if err != nil {
		return nil, err
	}

	// OpenAI 返回的是纯补全文本，包一层框架再走统一抽取
	if ag.LLMProvider == model.ProviderOpenAI {
		raw = fmt.Sprintf("Question: %s Answer:%s", question, raw)
	}

	answer := ExtractAnswer(raw)

	// 只有有效回答才写入会话历史
	sessionID := req.SessionID
	if answer != "" && !strings.HasPrefix(answer, "Error:") {
		if session == nil {
			session, err = s.chats.CreateSession(ctx, userID, ag.ID, question)
			if err != nil {
				return nil, err
			}
		}
		sessionID = session.ID

		if _, err := s.chats.AppendTurn(ctx, session, model.RoleHuman, question); err != nil {
			return nil, err
		}
		if _, err := s.chats.AppendTurn(ctx, session, model.RoleAI, answer); err != nil {
			return nil, err
		}
		s.memory.Append(ctx, session.ID,
			types.MemoryTurn{Role: model.RoleHuman, Content: question},
			types.MemoryTurn{Role: model.RoleAI, Content: answer},
		)
	} else {
		log.Printf("Warning: not saving answer to session history due to empty or error response")
	}

	return s.result(answer, question, sessionID), nil
}

// result 组装带 token 统计的查询结果
func (s *Service) result(answer, question, sessionID string) *types.QueryResult {
	tokensIn := types.EstimateTokens(question)
	tokensOut := types.EstimateTokens(answer)
	return &types.QueryResult{
		Answer:      answer,
		SessionID:   sessionID,
		TokensIn:    tokensIn,
		TokensOut:   tokensOut,
		TotalTokens: tokensIn + tokensOut,
	}
}

// joinDocuments 将检索片段拼接为提示词上下文
func joinDocuments(docs []types.Document) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Content != "" {
			parts = append(parts, doc.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
