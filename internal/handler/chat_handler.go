package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agentxhq/agentx/internal/middleware"
	"github.com/agentxhq/agentx/internal/service"
)

// ChatHandler 聊天历史处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建聊天历史处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// ListSessions 列出会话
// agent_id 查询参数为空时返回全部
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	sessions, err := h.svc.Chat.ListSessions(c.Request.Context(), userID, c.Query("agent_id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, sessions)
}

// GetSession 获取会话详情
func (h *ChatHandler) GetSession(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	session, err := h.svc.Chat.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, session)
}

// ListMessages 返回会话的全部消息
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	messages, err := h.svc.Chat.ListTurns(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, messages)
}

// DeleteSession 删除会话
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	sessionID := c.Param("id")
	if err := h.svc.Chat.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		Error(c, err)
		return
	}
	h.svc.Memory.Clear(c.Request.Context(), sessionID)
	NoContent(c)
}
