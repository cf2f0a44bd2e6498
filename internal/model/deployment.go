package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// 部署方式常量
const (
	DeployMethodAPI   = "api"
	DeployMethodEmbed = "embed"
	DeployMethodBoth  = "both"
)

// Deployment 智能体部署
// 对外暴露一个以 API Key 认证的查询入口
type Deployment struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	DeploymentID   string         `gorm:"uniqueIndex;size:64;not null" json:"deployment_id"`
	UserID         string         `gorm:"index;size:36;not null" json:"user_id"`
	AgentID        string         `gorm:"index;size:36;not null" json:"agent_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Method         string         `gorm:"size:20;not null" json:"method"` // api, embed, both
	APIKey         string         `gorm:"uniqueIndex;size:64" json:"api_key,omitempty"`
	ShortToken     string         `gorm:"uniqueIndex;size:64" json:"short_token,omitempty"`
	AllowedDomains string         `gorm:"size:512;default:*" json:"allowed_domains"` // 逗号分隔，* 表示全部
	RateLimit      int            `gorm:"default:100" json:"rate_limit"`             // 每日请求数
	IsActive       bool           `gorm:"index;default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Deployment) TableName() string {
	return "deployments"
}

// AllowsOrigin 判断来源域名是否允许访问
func (d *Deployment) AllowsOrigin(origin string) bool {
	if d.AllowedDomains == "" || d.AllowedDomains == "*" {
		return true
	}
	for _, domain := range strings.Split(d.AllowedDomains, ",") {
		domain = strings.TrimSpace(domain)
		if domain != "" && strings.HasSuffix(origin, domain) {
			return true
		}
	}
	return false
}
