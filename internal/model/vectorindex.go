package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// 向量索引类型常量
const (
	IndexKindPinecone = "pinecone" // 远程 Pinecone 索引
	IndexKindFAISS    = "faiss"    // 本地文件构建的内存索引
)

// DefaultEmbeddingModel 默认向量化模型
const DefaultEmbeddingModel = "sentence-transformers/all-mpnet-base-v2"

// PineconeConfig Pinecone 索引配置
type PineconeConfig struct {
	APIKey    string `json:"api_key,omitempty"`
	Metric    string `json:"metric"`
	Cloud     string `json:"cloud"`
	Region    string `json:"region"`
	Dimension int    `json:"dimension"`
}

// Value 实现 driver.Valuer 接口
func (c PineconeConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan 实现 sql.Scanner 接口
func (c *PineconeConfig) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, c)
}

// GormDataType 指定 GORM 数据类型
func (PineconeConfig) GormDataType() string {
	return "jsonb"
}

// VectorIndex 向量索引
// Pinecone 索引持有远程凭证，FAISS 索引持有上传的文件
type VectorIndex struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	UserID         string         `gorm:"index:idx_user_index_name,unique;size:36;not null" json:"user_id"`
	Name           string         `gorm:"index:idx_user_index_name,unique;size:255;not null" json:"name"`
	Kind           string         `gorm:"size:20;not null" json:"kind"` // pinecone, faiss
	EmbeddingModel string         `gorm:"size:255" json:"embedding_model"`
	Pinecone       PineconeConfig `gorm:"type:jsonb;serializer:json" json:"pinecone,omitempty"`
	Files          []FileUpload   `gorm:"foreignKey:IndexID" json:"files,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (VectorIndex) TableName() string {
	return "vector_indexes"
}

// FileUpload 上传的索引数据文件
type FileUpload struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"index;size:36;not null" json:"user_id"`
	IndexID    string    `gorm:"index;size:36;not null" json:"index_id"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FilePath   string    `gorm:"size:512;not null" json:"file_path"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// TableName 指定表名
func (FileUpload) TableName() string {
	return "file_uploads"
}
