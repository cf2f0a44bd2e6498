package model

import (
	"time"

	"gorm.io/gorm"
)

// LLM 提供商常量
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderGemini      = "gemini"
)

// DefaultPromptTemplate 默认提示词模板
const DefaultPromptTemplate = "You are a helpful assistant that answers questions about the provided documents."

// Agent RAG 智能体配置
// 绑定一个 LLM 提供商/模型/凭证、一段提示词模板，以及可选的一个向量索引
type Agent struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	UserID         string         `gorm:"index:idx_user_agent_name,unique;size:36;not null" json:"user_id"`
	Name           string         `gorm:"index:idx_user_agent_name,unique;size:255;not null" json:"name"`
	LLMProvider    string         `gorm:"size:32;not null" json:"llm_provider"` // huggingface, openai, gemini
	LLMModelName   string         `gorm:"size:255;not null" json:"llm_model_name"`
	LLMAPIKey      string         `gorm:"size:512" json:"-"`
	PromptTemplate string         `gorm:"type:text" json:"prompt_template"`
	VectorIndexID  *string        `gorm:"index;size:36" json:"vector_index_id,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Agent) TableName() string {
	return "agents"
}

// HasIndex 是否关联了向量索引
func (a *Agent) HasIndex() bool {
	return a.VectorIndexID != nil && *a.VectorIndexID != ""
}
