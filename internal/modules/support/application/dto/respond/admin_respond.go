package respond

import (
	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/session"
)

// AdminLoginRespond 管理端登录响应
type AdminLoginRespond struct {
	Token string `json:"token"`
}

// SessionListRespond 会话列表
type SessionListRespond struct {
	Sessions []string `json:"sessions"`
	Count    int      `json:"count"`
}

// SessionDetailRespond 单个会话详情
type SessionDetailRespond struct {
	Session *session.Session `json:"session"`
}

// SessionClearRespond 会话删除结果
type SessionClearRespond struct {
	Cleared bool `json:"cleared"`
}

// LedgerListRespond 动作台账列表
type LedgerListRespond struct {
	Action  string          `json:"action"`
	Records []action.Record `json:"records"`
	Count   int             `json:"count"`
}

// IngestRespond 手册入库统计
type IngestRespond struct {
	Files  int `json:"files"`
	Chunks int `json:"chunks"`
}

// OrderRespond 订单查询结果
type OrderRespond struct {
	OrderID       string `json:"order_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ProductName   string `json:"product_name"`
	ModelNumber   string `json:"model_number"`
	PurchaseDate  string `json:"purchase_date"`
	WarrantyYears string `json:"warranty_years"`
	Summary       string `json:"summary"`
}
