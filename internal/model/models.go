// Package model 定义 AgentX 的数据模型
package model

// AllModels 用于数据库自动迁移的模型列表
var AllModels = []interface{}{
	&User{},
	&Agent{},
	&VectorIndex{},
	&FileUpload{},
	&ChatSession{},
	&ChatMessage{},
	&Deployment{},
}
