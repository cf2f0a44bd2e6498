// Package handler 提供 HTTP 处理器
package handler

import (
	"github.com/agentxhq/agentx/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Auth       *AuthHandler
	Agent      *AgentHandler
	Chat       *ChatHandler
	Index      *IndexHandler
	Deployment *DeploymentHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc),
		Agent:      NewAgentHandler(svc),
		Chat:       NewChatHandler(svc),
		Index:      NewIndexHandler(svc),
		Deployment: NewDeploymentHandler(svc),
	}
}
