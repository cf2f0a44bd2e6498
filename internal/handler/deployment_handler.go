package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agentxhq/agentx/internal/middleware"
	"github.com/agentxhq/agentx/internal/service"
	"github.com/agentxhq/agentx/internal/service/deployment"
	"github.com/agentxhq/agentx/internal/service/query"
)

// DeploymentHandler 部署处理器
type DeploymentHandler struct {
	svc *service.Services
}

// NewDeploymentHandler 创建部署处理器
func NewDeploymentHandler(svc *service.Services) *DeploymentHandler {
	return &DeploymentHandler{svc: svc}
}

// Create 发布智能体
func (h *DeploymentHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req deployment.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	resp, err := h.svc.Deployment.Create(c.Request.Context(), userID, &req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, resp)
}

// List 列出部署
func (h *DeploymentHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	deployments, err := h.svc.Deployment.List(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, deployments)
}

// Get 获取部署详情
func (h *DeploymentHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	d, err := h.svc.Deployment.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, d)
}

// Delete 删除部署
func (h *DeploymentHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.svc.Deployment.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	NoContent(c)
}

// Query 以部署身份查询智能体
// API 部署从 X-API-Key 头取密钥，内嵌部署校验 Origin
func (h *DeploymentHandler) Query(c *gin.Context) {
	var req query.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	result, err := h.svc.Deployment.QueryDeployed(
		c.Request.Context(),
		c.Param("id"),
		c.GetHeader("X-API-Key"),
		c.GetHeader("Origin"),
		&req,
	)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// ResolveShortToken 根据短令牌返回内嵌部署配置
func (h *DeploymentHandler) ResolveShortToken(c *gin.Context) {
	d, err := h.svc.Deployment.ResolveShortToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		Error(c, err)
		return
	}

	origin := c.GetHeader("Origin")
	if origin != "" && !d.AllowsOrigin(origin) {
		Forbidden(c, "Origin is not allowed for this deployment")
		return
	}

	Success(c, gin.H{
		"deployment_id": d.DeploymentID,
		"method":        d.Method,
	})
}
