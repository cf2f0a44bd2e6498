package repository

import (
	"github.com/agentxhq/agentx/internal/model"
	"gorm.io/gorm"
)

// agentRepositoryImpl Agent 数据访问
type agentRepositoryImpl struct {
	db *gorm.DB
}

// NewAgentRepository 创建 Agent 仓库
func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepositoryImpl{db: db}
}

// Create 创建 Agent
func (r *agentRepositoryImpl) Create(agent *model.Agent) error {
	return r.db.Create(agent).Error
}

// GetByID 获取 Agent
func (r *agentRepositoryImpl) GetByID(id string) (*model.Agent, error) {
	var agent model.Agent
	err := r.db.Where("id = ?", id).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// GetByName 按用户和名称获取 Agent
func (r *agentRepositoryImpl) GetByName(userID, name string) (*model.Agent, error) {
	var agent model.Agent
	err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// ListByUser 列出用户的所有 Agent
func (r *agentRepositoryImpl) ListByUser(userID string) ([]*model.Agent, error) {
	var agents []*model.Agent
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&agents).Error
	return agents, err
}

// Update 更新 Agent
func (r *agentRepositoryImpl) Update(agent *model.Agent) error {
	return r.db.Save(agent).Error
}

// Delete 删除 Agent
func (r *agentRepositoryImpl) Delete(id string) error {
	return r.db.Delete(&model.Agent{}, "id = ?", id).Error
}

var _ AgentRepository = (*agentRepositoryImpl)(nil)
