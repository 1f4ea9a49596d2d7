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

// AdminHandler 管理端HTTP Handler
type AdminHandler struct {
	svc service.AdminService
}

// NewAdminHandler 创建AdminHandler
func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Login 管理端登录
//
// 路由: POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req supportRequest.AdminLoginRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("admin login bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		zlog.Warn("admin login rejected", zap.String("username", req.Username))
		back.Error(c, xerr.Unauthorized, err.Error())
		return
	}
	back.Result(c, data, nil)
}

// ListSessions 列出全部会话
//
// 路由: GET /admin/sessions
// 鉴权: 需要JWT
func (h *AdminHandler) ListSessions(c *gin.Context) {
	data, err := h.svc.ListSessions(c.Request.Context())
	if err != nil {
		zlog.Error("list sessions failed", zap.Error(err))
	}
	back.Result(c, data, err)
}

// GetSession 查看会话详情
//
// 路由: GET /admin/sessions/:id
// 鉴权: 需要JWT
func (h *AdminHandler) GetSession(c *gin.Context) {
	data, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		back.Error(c, xerr.NotFound, err.Error())
		return
	}
	back.Result(c, data, nil)
}

// ClearSession 删除会话
//
// 路由: DELETE /admin/sessions/:id
// 鉴权: 需要JWT
func (h *AdminHandler) ClearSession(c *gin.Context) {
	data, err := h.svc.ClearSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		zlog.Error("clear session failed", zap.Error(err))
	}
	back.Result(c, data, err)
}

// ListActions 查看动作台账
//
// 路由: GET /admin/actions/:name
// 鉴权: 需要JWT
func (h *AdminHandler) ListActions(c *gin.Context) {
	data, err := h.svc.ListActions(c.Request.Context(), c.Param("name"))
	if err != nil {
		back.Error(c, xerr.BadRequest, err.Error())
		return
	}
	back.Result(c, data, nil)
}

// GetOrder 订单查询
//
// 路由: GET /admin/orders/:id
// 鉴权: 需要JWT
func (h *AdminHandler) GetOrder(c *gin.Context) {
	data, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		back.Error(c, xerr.NotFound, err.Error())
		return
	}
	back.Result(c, data, nil)
}

// Ingest 触发手册入库
//
// 路由: POST /admin/ingest
// 鉴权: 需要JWT
func (h *AdminHandler) Ingest(c *gin.Context) {
	var req supportRequest.IngestRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Ingest(c.Request.Context(), req)
	if err != nil {
		zlog.Error("manual ingest failed", zap.Error(err))
	}
	back.Result(c, data, err)
}
