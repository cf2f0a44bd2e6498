package repository

import (
	"github.com/agentxhq/agentx/internal/model"
	"gorm.io/gorm"
)

// indexRepositoryImpl 向量索引数据访问
type indexRepositoryImpl struct {
	db *gorm.DB
}

// NewIndexRepository 创建索引仓库
func NewIndexRepository(db *gorm.DB) IndexRepository {
	return &indexRepositoryImpl{db: db}
}

// Create 创建索引
func (r *indexRepositoryImpl) Create(index *model.VectorIndex) error {
	return r.db.Create(index).Error
}

// GetByID 获取索引
func (r *indexRepositoryImpl) GetByID(id string) (*model.VectorIndex, error) {
	var index model.VectorIndex
	err := r.db.Where("id = ?", id).First(&index).Error
	if err != nil {
		return nil, err
	}
	return &index, nil
}

// GetByName 按用户和名称获取索引
func (r *indexRepositoryImpl) GetByName(userID, name string) (*model.VectorIndex, error) {
	var index model.VectorIndex
	err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&index).Error
	if err != nil {
		return nil, err
	}
	return &index, nil
}

// ListByUser 列出用户的所有索引
func (r *indexRepositoryImpl) ListByUser(userID string) ([]*model.VectorIndex, error) {
	var indexes []*model.VectorIndex
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&indexes).Error
	return indexes, err
}

// Update 更新索引
func (r *indexRepositoryImpl) Update(index *model.VectorIndex) error {
	return r.db.Save(index).Error
}

// Delete 删除索引及其文件记录
func (r *indexRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.FileUpload{}, "index_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.VectorIndex{}, "id = ?", id).Error
	})
}

// CreateFile 记录上传文件
func (r *indexRepositoryImpl) CreateFile(file *model.FileUpload) error {
	return r.db.Create(file).Error
}

// GetLatestFile 获取索引最近上传的文件
func (r *indexRepositoryImpl) GetLatestFile(userID, indexID string) (*model.FileUpload, error) {
	var file model.FileUpload
	err := r.db.Where("user_id = ? AND index_id = ?", userID, indexID).
		Order("uploaded_at DESC").
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ReplaceFile 替换索引的数据文件
func (r *indexRepositoryImpl) ReplaceFile(file *model.FileUpload) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.FileUpload{}, "index_id = ?", file.IndexID).Error; err != nil {
			return err
		}
		return tx.Create(file).Error
	})
}

var _ IndexRepository = (*indexRepositoryImpl)(nil)
