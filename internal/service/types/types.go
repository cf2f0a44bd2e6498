// Package types 提供服务层共享的类型，避免循环导入
package types

// Document 检索出的文本块
type Document struct {
	ID       string                 `json:"id"`
	Content  string                 `json:"content"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// MemoryTurn 会话记忆中的一轮消息
type MemoryTurn struct {
	Role    string `json:"role"` // human, ai
	Content string `json:"content"`
}

// QueryResult 一次智能体查询的结果
type QueryResult struct {
	Answer      string `json:"answer"`
	SessionID   string `json:"session_id"`
	TokensIn    int    `json:"tokens_in"`
	TokensOut   int    `json:"tokens_out"`
	TotalTokens int    `json:"total_tokens"`
}
