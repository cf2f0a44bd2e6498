package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agentxhq/agentx/internal/middleware"
	"github.com/agentxhq/agentx/internal/service"
	"github.com/agentxhq/agentx/internal/service/agent"
	"github.com/agentxhq/agentx/internal/service/query"
)

// AgentHandler 智能体处理器
type AgentHandler struct {
	svc *service.Services
}

// NewAgentHandler 创建智能体处理器
func NewAgentHandler(svc *service.Services) *AgentHandler {
	return &AgentHandler{svc: svc}
}

// Create 创建智能体
func (h *AgentHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req agent.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	ag, err := h.svc.Agent.Create(c.Request.Context(), userID, &req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, ag)
}

// List 列出智能体
func (h *AgentHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	agents, err := h.svc.Agent.List(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, agents)
}

// Get 获取智能体详情
func (h *AgentHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	ag, err := h.svc.Agent.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, ag)
}

// Update 更新智能体
func (h *AgentHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req agent.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	ag, err := h.svc.Agent.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, ag)
}

// Delete 删除智能体
func (h *AgentHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.svc.Agent.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	NoContent(c)
}

// Query 对智能体发起 RAG 查询
func (h *AgentHandler) Query(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req query.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	result, err := h.svc.Query.Query(c.Request.Context(), userID, &req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}
