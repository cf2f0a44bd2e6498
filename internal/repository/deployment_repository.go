package repository

import (
	"github.com/agentxhq/agentx/internal/model"
	"gorm.io/gorm"
)

// deploymentRepositoryImpl 部署数据访问
type deploymentRepositoryImpl struct {
	db *gorm.DB
}

// NewDeploymentRepository 创建部署仓库
func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepositoryImpl{db: db}
}

// Create 创建部署
func (r *deploymentRepositoryImpl) Create(d *model.Deployment) error {
	return r.db.Create(d).Error
}

// GetByDeploymentID 按对外部署 ID 获取部署
func (r *deploymentRepositoryImpl) GetByDeploymentID(deploymentID string) (*model.Deployment, error) {
	var d model.Deployment
	err := r.db.Where("deployment_id = ?", deploymentID).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByShortToken 按短令牌获取部署
func (r *deploymentRepositoryImpl) GetByShortToken(token string) (*model.Deployment, error) {
	var d model.Deployment
	err := r.db.Where("short_token = ? AND is_active = ?", token, true).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser 列出用户的所有部署
func (r *deploymentRepositoryImpl) ListByUser(userID string) ([]*model.Deployment, error) {
	var deployments []*model.Deployment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&deployments).Error
	return deployments, err
}

// Delete 删除部署
func (r *deploymentRepositoryImpl) Delete(id string) error {
	return r.db.Delete(&model.Deployment{}, "id = ?", id).Error
}

var _ DeploymentRepository = (*deploymentRepositoryImpl)(nil)
