package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agentxhq/agentx/internal/middleware"
	"github.com/agentxhq/agentx/internal/service"
	"github.com/agentxhq/agentx/internal/service/index"
)

// IndexHandler 向量索引处理器
type IndexHandler struct {
	svc *service.Services
}

// NewIndexHandler 创建向量索引处理器
func NewIndexHandler(svc *service.Services) *IndexHandler {
	return &IndexHandler{svc: svc}
}

// Create 创建索引
func (h *IndexHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req index.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	idx, err := h.svc.Index.Create(c.Request.Context(), userID, &req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, idx)
}

// List 列出索引
func (h *IndexHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	indexes, err := h.svc.Index.List(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, indexes)
}

// Get 获取索引详情
func (h *IndexHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	idx, err := h.svc.Index.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, idx)
}

// Delete 删除索引
func (h *IndexHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.svc.Index.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	NoContent(c)
}

// UploadFile 上传索引数据文件
func (h *IndexHandler) UploadFile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "Missing file upload")
		return
	}

	file, err := h.svc.Index.UploadFile(c.Request.Context(), userID, c.Param("id"), fileHeader)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, file)
}
