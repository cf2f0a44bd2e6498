// Package agent 提供智能体的增删改查与配置解析
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/types"
)

// Service 智能体服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建智能体服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// CreateRequest 创建智能体请求
type CreateRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=100"`
	LLMProvider    string  `json:"llm_provider" binding:"required"`
	LLMModelName   string  `json:"llm_model_name" binding:"required"`
	LLMAPIKey      string  `json:"llm_api_key"`
	PromptTemplate string  `json:"prompt_template"`
	VectorIndexID  *string `json:"vector_index_id"`
}

// UpdateRequest 更新智能体请求
// 指针字段为 nil 表示不修改
type UpdateRequest struct {
	Name           *string `json:"name"`
	LLMProvider    *string `json:"llm_provider"`
	LLMModelName   *string `json:"llm_model_name"`
	LLMAPIKey      *string `json:"llm_api_key"`
	PromptTemplate *string `json:"prompt_template"`
	VectorIndexID  *string `json:"vector_index_id"`
}

// validProviders 支持的提供商
var validProviders = map[string]bool{
	model.ProviderHuggingFace: true,
	model.ProviderOpenAI:      true,
	model.ProviderGemini:      true,
}

// Create 创建智能体
// 同一用户下名称唯一
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*model.Agent, error) {
	provider := strings.ToLower(strings.TrimSpace(req.LLMProvider))
	if !validProviders[provider] {
		return nil, types.Validationf("llm provider %q is not supported", req.LLMProvider)
	}

	if existing, _ := s.repo.Agent.GetByName(userID, req.Name); existing != nil {
		return nil, types.Validationf("agent with name %q already exists", req.Name)
	}

	if req.VectorIndexID != nil {
		if err := s.checkIndexOwnership(userID, *req.VectorIndexID); err != nil {
			return nil, err
		}
	}

	promptTemplate := req.PromptTemplate
	if strings.TrimSpace(promptTemplate) == "" {
		promptTemplate = model.DefaultPromptTemplate
	}

	agent := &model.Agent{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           req.Name,
		LLMProvider:    provider,
		LLMModelName:   req.LLMModelName,
		LLMAPIKey:      req.LLMAPIKey,
		PromptTemplate: promptTemplate,
		VectorIndexID:  req.VectorIndexID,
	}

	if err := s.repo.Agent.Create(agent); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return agent, nil
}

// Get 获取智能体，校验归属
func (s *Service) Get(ctx context.Context, userID, agentID string) (*model.Agent, error) {
	agent, err := s.repo.Agent.GetByID(agentID)
	if err != nil || agent == nil {
		return nil, types.NotFoundf("agent %q not found", agentID)
	}
	if agent.UserID != userID {
		return nil, types.AccessDeniedf("agent %q does not belong to current user", agentID)
	}
	return agent, nil
}

// List 列出用户的全部智能体
func (s *Service) List(ctx context.Context, userID string) ([]*model.Agent, error) {
	agents, err := s.repo.Agent.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return agents, nil
}

// Update 更新智能体
func (s *Service) Update(ctx context.Context, userID, agentID string, req *UpdateRequest) (*model.Agent, error) {
	agent, err := s.Get(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != agent.Name {
		if existing, _ := s.repo.Agent.GetByName(userID, *req.Name); existing != nil {
			return nil, types.Validationf("agent with name %q already exists", *req.Name)
		}
		agent.Name = *req.Name
	}
	if req.LLMProvider != nil {
		provider := strings.ToLower(strings.TrimSpace(*req.LLMProvider))
		if !validProviders[provider] {
			return nil, types.Validationf("llm provider %q is not supported", *req.LLMProvider)
		}
		agent.LLMProvider = provider
	}
	if req.LLMModelName != nil {
		agent.LLMModelName = *req.LLMModelName
	}
	if req.LLMAPIKey != nil {
		agent.LLMAPIKey = *req.LLMAPIKey
	}
	if req.PromptTemplate != nil {
		agent.PromptTemplate = *req.PromptTemplate
	}
	if req.VectorIndexID != nil {
		if *req.VectorIndexID == "" {
			agent.VectorIndexID = nil
		} else {
			if err := s.checkIndexOwnership(userID, *req.VectorIndexID); err != nil {
				return nil, err
			}
			agent.VectorIndexID = req.VectorIndexID
		}
	}

	if err := s.repo.Agent.Update(agent); err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}
	return agent, nil
}

// Delete 删除智能体
func (s *Service) Delete(ctx context.Context, userID, agentID string) error {
	if _, err := s.Get(ctx, userID, agentID); err != nil {
		return err
	}
	if err := s.repo.Agent.Delete(agentID); err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	return nil
}

// ResolveIndex 返回智能体关联的向量索引
// 智能体未绑定索引属于配置错误
func (s *Service) ResolveIndex(ctx context.Context, agent *model.Agent) (*model.VectorIndex, error) {
	if !agent.HasIndex() {
		return nil, types.Configurationf("agent %q has no vector index configured", agent.Name)
	}

	index, err := s.repo.Index.GetByID(*agent.VectorIndexID)
	if err != nil || index == nil {
		return nil, types.NotFoundf("vector index %q not found", *agent.VectorIndexID)
	}
	if index.UserID != agent.UserID {
		return nil, types.AccessDeniedf("vector index %q does not belong to agent owner", index.ID)
	}
	return index, nil
}

// checkIndexOwnership 校验索引存在且属于当前用户
func (s *Service) checkIndexOwnership(userID, indexID string) error {
	index, err := s.repo.Index.GetByID(indexID)
	if err != nil || index == nil {
		return types.NotFoundf("vector index %q not found", indexID)
	}
	if index.UserID != userID {
		return types.AccessDeniedf("vector index %q does not belong to current user", indexID)
	}
	return nil
}
