package respond

import "AuraLink/internal/modules/support/domain/action"

// ChatRespond /chat 响应体（固定契约，不套统一响应壳）
type ChatRespond struct {
	Answer             string             `json:"answer"`
	Intent             string             `json:"intent"`
	RagSources         string             `json:"rag_sources"`
	Action             string             `json:"action"`
	ActionConfirmation *string            `json:"action_confirmation"`
	ActionLog          *action.ExecResult `json:"action_log"`
	SessionID          string             `json:"session_id"`
}
