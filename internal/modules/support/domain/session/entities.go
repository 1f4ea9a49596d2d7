package session

import (
	"fmt"
	"strings"
	"time"
)

// 会话生命周期状态
const (
	StateCollectingInfo = "collecting_info"
	StateReadyForAction = "ready_for_action"
	StateActionExecuted = "action_executed"
	StateCompleted      = "completed"
)

// IsValidState 校验状态是否合法
func IsValidState(state string) bool {
	switch state {
	case StateCollectingInfo, StateReadyForAction, StateActionExecuted, StateCompleted:
		return true
	}
	return false
}

// HistoryEntry 单条对话历史（追加写，顺序即语义）
type HistoryEntry struct {
	Role      string    `json:"role"` // user / assistant
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Session 单个对话的全部记忆：结构化槽位 + 对话历史 + 生命周期状态
//
// 槽位按约定只写一次：已填充的槽位不会被管道推断覆盖，
// 只有订单回查（源头数据刷新）会整体覆盖订单相关槽位。
type Session struct {
	SessionId string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`

	// 订单/客户/产品槽位（订单回查时整体刷新）
	OrderId       string `json:"order_id,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	ProductId     string `json:"product_id,omitempty"`
	ProductName   string `json:"product_name,omitempty"`
	ModelNumber   string `json:"model_number,omitempty"`
	SerialNumber  string `json:"serial_number,omitempty"`
	PurchaseDate  string `json:"purchase_date,omitempty"`
	WarrantyYears string `json:"warranty_years,omitempty"`

	// 多轮信息收集槽位
	IssueDescription  string `json:"issue_description,omitempty"`
	ReasonForAction   string `json:"reason_for_action,omitempty"`
	PreferredDatetime string `json:"preferred_datetime,omitempty"`
	AdditionalDetails string `json:"additional_details,omitempty"`

	ConversationHistory []HistoryEntry `json:"conversation_history"`
	ConversationState   string         `json:"conversation_state"`

	// 动作执行结果（两者同时为空或同时有值）
	ActionId   string `json:"action_id,omitempty"`
	ActionType string `json:"action_type,omitempty"`
}

// New 初始化一个空会话（所有槽位为空，状态为 collecting_info）
func New(sessionID string) *Session {
	return &Session{
		SessionId:           sessionID,
		CreatedAt:           time.Now(),
		ConversationHistory: []HistoryEntry{},
		ConversationState:   StateCollectingInfo,
	}
}

// Clone 深拷贝（存储层对外返回副本，避免并发读写同一对象）
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.ConversationHistory = make([]HistoryEntry, len(s.ConversationHistory))
	copy(c.ConversationHistory, s.ConversationHistory)
	return &c
}

// SetSlot 按槽位名写入；未知槽位返回 false
func (s *Session) SetSlot(key, value string) bool {
	switch key {
	case "order_id":
		s.OrderId = value
	case "customer_name":
		s.CustomerName = value
	case "customer_email":
		s.CustomerEmail = value
	case "customer_phone":
		s.CustomerPhone = value
	case "product_id":
		s.ProductId = value
	case "product_name":
		s.ProductName = value
	case "model_number":
		s.ModelNumber = value
	case "serial_number":
		s.SerialNumber = value
	case "purchase_date":
		s.PurchaseDate = value
	case "warranty_years":
		s.WarrantyYears = value
	case "issue_description":
		s.IssueDescription = value
	case "reason_for_action":
		s.ReasonForAction = value
	case "preferred_datetime":
		s.PreferredDatetime = value
	case "additional_details":
		s.AdditionalDetails = value
	default:
		return false
	}
	return true
}

// ContextSummary 渲染已知信息摘要（喂给生成式应答，避免重复追问已知事实）
//
// 仅包含已填充的槽位；全部为空时返回空串。
func (s *Session) ContextSummary() string {
	if s == nil {
		return ""
	}

	var parts []string
	if s.OrderId != "" {
		parts = append(parts, fmt.Sprintf("Order ID: %s", s.OrderId))
	}
	if s.CustomerName != "" {
		parts = append(parts, fmt.Sprintf("Customer: %s", s.CustomerName))
	}
	if s.ProductName != "" {
		parts = append(parts, fmt.Sprintf("Product: %s", s.ProductName))
	}
	if s.ModelNumber != "" {
		parts = append(parts, fmt.Sprintf("Model: %s", s.ModelNumber))
	}
	if s.IssueDescription != "" {
		parts = append(parts, fmt.Sprintf("Issue: %s", s.IssueDescription))
	}

	if len(parts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Known Information:")
	for _, p := range parts {
		sb.WriteString("\n- ")
		sb.WriteString(p)
	}
	return sb.String()
}
