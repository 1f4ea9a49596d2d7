package http

import (
	supportRequest "AuraLink/internal/modules/support/application/dto/request"
	"AuraLink/internal/modules/support/application/service"
	"AuraLink/pkg/back"
	"AuraLink/pkg/xerr"
	"AuraLink/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler 客服对话HTTP Handler
type ChatHandler struct {
	svc service.ChatService
}

// NewChatHandler 创建ChatHandler
func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Chat 处理客服对话请求
//
// 路由: POST /chat
// 请求体: ChatRequest
// 响应体: ChatRespond（固定契约，不套统一响应壳）
func (h *ChatHandler) Chat(c *gin.Context) {
	var req supportRequest.ChatRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("chat bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrEmptyMessage.Message)
		return
	}

	data, err := h.svc.Chat(c.Request.Context(), req)
	if err != nil {
		if e, ok := err.(*xerr.CodeError); ok {
			back.Error(c, e.Code, e.Message)
			return
		}
		zlog.Error("chat failed", zap.Error(err))
		back.Error(c, xerr.ErrServerError.Code, xerr.ErrServerError.Message)
		return
	}
	back.Raw(c, data)
}

// Health 健康检查
//
// 路由: GET /health
func (h *ChatHandler) Health(c *gin.Context) {
	back.Raw(c, gin.H{"status": "ok"})
}
