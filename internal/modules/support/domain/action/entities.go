package action

import "time"

// Type 操作动作类型（与意图是两套词表，经固定映射换算）
type Type string

const (
	None               Type = "none"
	InitiateRefund     Type = "initiate_refund"
	InitiateReplacement Type = "initiate_replacement"
	BookService        Type = "book_service"
)

// 意图标签（分类器输出词表）
const (
	IntentTroubleshoot       = "troubleshoot"
	IntentRefund             = "refund"
	IntentReplacement        = "replacement"
	IntentServiceBooking     = "service_booking"
	IntentOrderStatus        = "order_status"
	IntentProductInformation = "product_information"
	IntentGeneralQuery       = "general_query"
	IntentError              = "error"
)

// ValidIntents 分类器合法输出集合
var ValidIntents = map[string]bool{
	IntentTroubleshoot:       true,
	IntentRefund:             true,
	IntentReplacement:        true,
	IntentServiceBooking:     true,
	IntentOrderStatus:        true,
	IntentProductInformation: true,
	IntentGeneralQuery:       true,
}

// intentToAction 意图→动作固定映射（确定性，绕开生成式模型做动作选择）
var intentToAction = map[string]Type{
	IntentRefund:         InitiateRefund,
	IntentReplacement:    InitiateReplacement,
	IntentServiceBooking: BookService,
}

// ResolveAction 由意图解析动作类型；映射之外的意图一律为 none
func ResolveAction(intent string) Type {
	if t, ok := intentToAction[intent]; ok {
		return t
	}
	return None
}

// labels 动作的用户可读名称
var labels = map[Type]string{
	InitiateRefund:      "refund",
	InitiateReplacement: "replacement",
	BookService:         "service appointment",
}

// Label 动作的用户可读名称；未知动作回落为 request
func Label(t Type) string {
	if l, ok := labels[t]; ok {
		return l
	}
	return "request"
}

// 动作ID前缀
var prefixes = map[Type]string{
	InitiateRefund:      "REF",
	InitiateReplacement: "REP",
	BookService:         "SRV",
}

// Prefix 动作ID前缀（REF/REP/SRV）；未知动作返回空串
func Prefix(t Type) string {
	return prefixes[t]
}

// 台账名称（每类动作一个追加写 JSON 数组文件）
var ledgers = map[Type]string{
	InitiateRefund:      "refunds",
	InitiateReplacement: "replacements",
	BookService:         "service_bookings",
}

// LedgerName 动作对应的台账名；未知动作返回空串
func LedgerName(t Type) string {
	return ledgers[t]
}

// 动作记录状态
const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusPartial    = "partial"
	StatusFailed     = "failed"
)

// Record 已执行动作的台账记录
//
// JSON 字段与台账文件格式一一对应；预约类动作额外携带上门信息。
type Record struct {
	Id          string `json:"id"`
	Type        Type   `json:"type"`
	ProductName string `json:"product_name"`
	UserEmail   string `json:"user_email"`
	UserName    string `json:"user_name"`
	OrderId     string `json:"order_id,omitempty"`

	// 服务预约专属字段
	UserAddress   string `json:"user_address,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	ServiceCenter string `json:"service_center,omitempty"`
	ScheduledDate string `json:"scheduled_date,omitempty"`
	TimeSlot      string `json:"time_slot,omitempty"`

	Date   string `json:"date"`
	Status string `json:"status"`
}

// UserDetails 执行动作所需的用户信息（从会话槽位取得）
type UserDetails struct {
	Email         string
	Name          string
	ProductName   string
	OrderID       string
	Phone         string
	Address       string
	ServiceCenter string
	ScheduledDate string
	TimeSlot      string
}

// ExecResult 动作执行结果（即响应中的 action_log）
//
// Status 取值：success（记录落账）/ partial（ID已分配但落账失败）/ failed（执行中异常被捕获）。
type ExecResult struct {
	Action   Type    `json:"action"`
	ActionID string  `json:"action_id,omitempty"`
	Status   string  `json:"status"`
	Message  string  `json:"message,omitempty"`
	Data     *Record `json:"data,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// NotifyData 通知模板数据
type NotifyData struct {
	ActionID      string `json:"action_id"`
	ActionType    Type   `json:"action_type"`
	ProductName   string `json:"product_name"`
	ServiceCenter string `json:"service_center,omitempty"`
	ScheduledDate string `json:"scheduled_date,omitempty"`
	TimeSlot      string `json:"time_slot,omitempty"`
	Date          string `json:"date"`
}

// NotifyResult 通知投递结果（仅记日志，永不透给用户）
type NotifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NowDateStr 动作ID中的日期段格式
func NowDateStr(now time.Time) string {
	return now.Format("20060102")
}
