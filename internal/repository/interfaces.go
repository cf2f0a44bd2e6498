// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import "github.com/agentxhq/agentx/internal/model"

// AuthRepository 用户数据访问接口
type AuthRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(id string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	UpdateUser(user *model.User) error
}

// AgentRepository 智能体数据访问接口
type AgentRepository interface {
	Create(agent *model.Agent) error
	GetByID(id string) (*model.Agent, error)
	GetByName(userID, name string) (*model.Agent, error)
	ListByUser(userID string) ([]*model.Agent, error)
	Update(agent *model.Agent) error
	Delete(id string) error
}

// ChatRepository 聊天数据访问接口
type ChatRepository interface {
	CreateSession(session *model.ChatSession) error
	GetSessionByID(id string) (*model.ChatSession, error)
	ListSessions(userID, agentID string) ([]*model.ChatSession, error)
	UpdateSession(session *model.ChatSession) error
	DeleteSession(id string) error
	CreateMessage(msg *model.ChatMessage) error
	GetMessagesBySessionID(sessionID string) ([]*model.ChatMessage, error)
	GetRecentMessagesBySession(sessionID string, limit int) ([]*model.ChatMessage, error)
}

// IndexRepository 向量索引数据访问接口
type IndexRepository interface {
	Create(index *model.VectorIndex) error
	GetByID(id string) (*model.VectorIndex, error)
	GetByName(userID, name string) (*model.VectorIndex, error)
	ListByUser(userID string) ([]*model.VectorIndex, error)
	Update(index *model.VectorIndex) error
	Delete(id string) error
	CreateFile(file *model.FileUpload) error
	GetLatestFile(userID, indexID string) (*model.FileUpload, error)
	ReplaceFile(file *model.FileUpload) error
}

// DeploymentRepository 部署数据访问接口
type DeploymentRepository interface {
	Create(d *model.Deployment) error
	GetByDeploymentID(deploymentID string) (*model.Deployment, error)
	GetByShortToken(token string) (*model.Deployment, error)
	ListByUser(userID string) ([]*model.Deployment, error)
	Delete(id string) error
}
