package model

import "time"

// 聊天消息角色常量
const (
	RoleHuman = "human"
	RoleAI    = "ai"
)

// ChatSession 聊天会话
type ChatSession struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	UserID    string        `gorm:"index;size:36;not null" json:"user_id"`
	AgentID   string        `gorm:"index;size:36;not null" json:"agent_id"`
	Title     string        `gorm:"size:255;default:New Chat" json:"title"`
	TokensIn  int           `gorm:"default:0" json:"tokens_in"`  // 累计输入 token
	TokensOut int           `gorm:"default:0" json:"tokens_out"` // 累计输出 token
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	Messages  []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

// ChatMessage 聊天消息，按时间顺序只追加
type ChatMessage struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	SessionID  string    `gorm:"index;size:36;not null" json:"session_id"`
	Role       string    `gorm:"size:20;index" json:"role"` // human, ai
	Content    string    `gorm:"type:text" json:"content"`
	TokenCount int       `gorm:"default:0" json:"token_count"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
