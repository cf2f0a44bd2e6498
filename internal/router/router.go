// Package router 设置 HTTP 路由
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/agentxhq/agentx/internal/handler"
	"github.com/agentxhq/agentx/internal/middleware"
	"github.com/agentxhq/agentx/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, svc *service.Services) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 内嵌脚本短链接，无需登录
	r.GET("/s/:token", h.Deployment.ResolveShortToken)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", middleware.RequireAuth(svc), h.Auth.Me)
			auth.POST("/change-password", middleware.RequireAuth(svc), h.Auth.ChangePassword)
		}

		// 部署查询入口以部署自身的密钥或域名白名单认证
		v1.POST("/deployments/:id/query", h.Deployment.Query)

		// 以下路由均要求登录
		authed := v1.Group("")
		authed.Use(middleware.RequireAuth(svc))
		{
			// Agent 智能体
			agents := authed.Group("/agents")
			{
				agents.POST("", h.Agent.Create)
				agents.GET("", h.Agent.List)
				agents.GET("/:id", h.Agent.Get)
				agents.PUT("/:id", h.Agent.Update)
				agents.DELETE("/:id", h.Agent.Delete)
				agents.POST("/query", h.Agent.Query)
			}

			// Chat 聊天历史
			chats := authed.Group("/chats")
			{
				chats.GET("", h.Chat.ListSessions)
				chats.GET("/:id", h.Chat.GetSession)
				chats.GET("/:id/messages", h.Chat.ListMessages)
				chats.DELETE("/:id", h.Chat.DeleteSession)
			}

			// Index 向量索引
			indexes := authed.Group("/indexes")
			{
				indexes.POST("", h.Index.Create)
				indexes.GET("", h.Index.List)
				indexes.GET("/:id", h.Index.Get)
				indexes.DELETE("/:id", h.Index.Delete)
				indexes.POST("/:id/files", h.Index.UploadFile)
			}

			// Deployment 部署
			deployments := authed.Group("/deployments")
			{
				deployments.POST("", h.Deployment.Create)
				deployments.GET("", h.Deployment.List)
				deployments.GET("/:id", h.Deployment.Get)
				deployments.DELETE("/:id", h.Deployment.Delete)
			}
		}
	}

	return r
}
