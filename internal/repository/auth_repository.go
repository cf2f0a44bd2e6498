package repository

import (
	"github.com/agentxhq/agentx/internal/model"
	"gorm.io/gorm"
)

// authRepositoryImpl 用户数据访问
type authRepositoryImpl struct {
	db *gorm.DB
}

// NewAuthRepository 创建用户仓库
func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepositoryImpl{db: db}
}

// CreateUser 创建用户
func (r *authRepositoryImpl) CreateUser(user *model.User) error {
	return r.db.Create(user).Error
}

// GetUserByID 获取用户
func (r *authRepositoryImpl) GetUserByID(id string) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail 根据邮箱获取用户
func (r *authRepositoryImpl) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername 根据用户名获取用户
func (r *authRepositoryImpl) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser 更新用户
func (r *authRepositoryImpl) UpdateUser(user *model.User) error {
	return r.db.Save(user).Error
}

var _ AuthRepository = (*authRepositoryImpl)(nil)
