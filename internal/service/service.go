// Package service 聚合全部业务服务
package service

import (
	"github.com/redis/go-redis/v9"

	"github.com/agentxhq/agentx/internal/config"
	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/agent"
	"github.com/agentxhq/agentx/internal/service/auth"
	"github.com/agentxhq/agentx/internal/service/chat"
	"github.com/agentxhq/agentx/internal/service/deployment"
	"github.com/agentxhq/agentx/internal/service/index"
	"github.com/agentxhq/agentx/internal/service/memory"
	"github.com/agentxhq/agentx/internal/service/query"
)

// Services 服务集合
type Services struct {
	Auth       *auth.Service
	Agent      *agent.Service
	Chat       *chat.Service
	Index      *index.Service
	Query      *query.Service
	Deployment *deployment.Service
	Memory     *memory.Manager

	Config *config.Config
}

// NewServices 创建所有服务
// redisClient 可为 nil，记忆缓存退化为每次读数据库
func NewServices(repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) *Services {
	authSvc := auth.NewService(repo, &cfg.Auth)
	agentSvc := agent.NewService(repo)
	chatSvc := chat.NewService(repo)
	indexSvc := index.NewService(repo, cfg)
	memoryMgr := memory.NewManager(repo.Chat, redisClient, cfg.RAG.MemoryTurns)
	querySvc := query.NewService(repo, agentSvc, chatSvc, memoryMgr, &cfg.RAG)
	deploySvc := deployment.NewService(repo, querySvc)

	return &Services{
		Auth:       authSvc,
		Agent:      agentSvc,
		Chat:       chatSvc,
		Index:      indexSvc,
		Query:      querySvc,
		Deployment: deploySvc,
		Memory:     memoryMgr,
		Config:     cfg,
	}
}
