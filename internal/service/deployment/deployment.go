// Package deployment 提供智能体的对外发布能力
// API 部署以密钥认证，内嵌部署以来源域名白名单控制
package deployment

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/query"
	"github.com/agentxhq/agentx/internal/service/types"
)

// Service 部署服务
type Service struct {
	repo    *repository.Repositories
	queries *query.Service
}

// NewService 创建部署服务
func NewService(repo *repository.Repositories, queries *query.Service) *Service {
	return &Service{repo: repo, queries: queries}
}

// CreateRequest 创建部署请求
type CreateRequest struct {
	AgentName      string `json:"agent_name" binding:"required"`
	Name           string `json:"deployment_name"`
	Description    string `json:"deployment_description"`
	Method         string `json:"deployment_method" binding:"required"`
	AllowedDomains string `json:"allowed_domains"`
}

// CreateResponse 创建部署响应
// API Key 仅在创建时返回一次
type CreateResponse struct {
	Deployment  *model.Deployment `json:"deployment"`
	APIEndpoint string            `json:"api_endpoint,omitempty"`
	EmbedCode   string            `json:"embed_code,omitempty"`
}

// Create 发布智能体
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*CreateResponse, error) {
	if req.Method != model.DeployMethodAPI && req.Method != model.DeployMethodEmbed && req.Method != model.DeployMethodBoth {
		return nil, types.Validationf("deployment method %q is not supported", req.Method)
	}

	ag, err := s.repo.Agent.GetByName(userID, req.AgentName)
	if err != nil || ag == nil {
		return nil, types.NotFoundf("agent %q not found", req.AgentName)
	}

	name := req.Name
	if name == "" {
		name = req.AgentName + "-deployment"
	}
	allowedDomains := req.AllowedDomains
	if allowedDomains == "" {
		allowedDomains = "*"
	}

	d := &model.Deployment{
		ID:             uuid.New().String(),
		DeploymentID:   uuid.New().String(),
		UserID:         userID,
		AgentID:        ag.ID,
		Name:           name,
		Description:    req.Description,
		Method:         req.Method,
		AllowedDomains: allowedDomains,
		IsActive:       true,
	}

	resp := &CreateResponse{Deployment: d}

	if req.Method == model.DeployMethodAPI || req.Method == model.DeployMethodBoth {
		key, err := generateToken(16)
		if err != nil {
			return nil, err
		}
		d.APIKey = "agentx_" + key
		resp.APIEndpoint = fmt.Sprintf("/api/v1/deployments/%s/query", d.DeploymentID)
	}

	if req.Method == model.DeployMethodEmbed || req.Method == model.DeployMethodBoth {
		token, err := generateToken(12)
		if err != nil {
			return nil, err
		}
		d.ShortToken = token
		resp.EmbedCode = fmt.Sprintf(`<script src="/s/%s"></script>`, token)
	}

	if err := s.repo.Deployment.Create(d); err != nil {
		return nil, fmt.Errorf("failed to create deployment: %w", err)
	}
	return resp, nil
}

// Get 获取部署详情，校验归属
func (s *Service) Get(ctx context.Context, userID, deploymentID string) (*model.Deployment, error) {
	d, err := s.repo.Deployment.GetByDeploymentID(deploymentID)
	if err != nil || d == nil {
		return nil, types.NotFoundf("deployment %q not found", deploymentID)
	}
	if d.UserID != userID {
		return nil, types.AccessDeniedf("deployment %q does not belong to current user", deploymentID)
	}
	return d, nil
}

// List 列出用户的全部部署
func (s *Service) List(ctx context.Context, userID string) ([]*model.Deployment, error) {
	deployments, err := s.repo.Deployment.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	return deployments, nil
}

// Delete 删除部署
func (s *Service) Delete(ctx context.Context, userID, deploymentID string) error {
	d, err := s.Get(ctx, userID, deploymentID)
	if err != nil {
		return err
	}
	if err := s.repo.Deployment.Delete(d.ID); err != nil {
		return fmt.Errorf("failed to delete deployment: %w", err)
	}
	return nil
}

// QueryDeployed 以部署身份执行查询
// API 部署校验密钥，内嵌部署校验来源域名，查询以部署所有者的身份执行
func (s *Service) QueryDeployed(ctx context.Context, deploymentID, apiKey, origin string, req *query.Request) (*types.QueryResult, error) {
	d, err := s.repo.Deployment.GetByDeploymentID(deploymentID)
	if err != nil || d == nil {
		return nil, types.NotFoundf("deployment %q not found", deploymentID)
	}
	if !d.IsActive {
		return nil, types.AccessDeniedf("deployment is not active")
	}

	ag, err := s.repo.Agent.GetByID(d.AgentID)
	if err != nil || ag == nil {
		return nil, types.NotFoundf("agent for deployment %q not found", deploymentID)
	}

	switch d.Method {
	case model.DeployMethodAPI:
		if apiKey == "" || apiKey != d.APIKey {
			return nil, types.AccessDeniedf("invalid or missing API key")
		}
	case model.DeployMethodEmbed:
		if origin != "" && !d.AllowsOrigin(origin) {
			return nil, types.AccessDeniedf("origin %q is not allowed for this deployment", origin)
		}
	case model.DeployMethodBoth:
		if apiKey != d.APIKey && (origin == "" || !d.AllowsOrigin(origin)) {
			return nil, types.AccessDeniedf("request not authorized for this deployment")
		}
	}

	req.AgentName = ag.Name
	return s.queries.Query(ctx, d.UserID, req)
}

// ResolveShortToken 根据短令牌返回内嵌部署
func (s *Service) ResolveShortToken(ctx context.Context, token string) (*model.Deployment, error) {
	d, err := s.repo.Deployment.GetByShortToken(token)
	if err != nil || d == nil {
		return nil, types.NotFoundf("deployment for token not found")
	}
	return d, nil
}

// generateToken 生成 URL 安全的随机令牌
func generateToken(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", types.Internalf("failed to generate random token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
