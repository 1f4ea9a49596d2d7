package action

import "AuraLink/internal/modules/support/domain/session"

// SlotCheck 槽位完整性检查结果
type SlotCheck struct {
	Missing  []string `json:"missing"`
	Complete bool     `json:"complete"`
	Prompt   string   `json:"prompt"`
}

// slotSpec 单个必填槽位：名称、是否已填、缺失时的追问话术
type slotSpec struct {
	Name   string
	Filled func(s *session.Session) bool
	Prompt string
}

var orderIDSlot = slotSpec{
	Name:   "order_id",
	Filled: func(s *session.Session) bool { return s.OrderId != "" },
	Prompt: "To process your request, I'll need your **Order ID** (e.g., ORD301).",
}

// requiredSlots 各动作类型的必填槽位表（按优先级排序）
//
// 新增动作类型只需在表中补一行，控制流不变。
var requiredSlots = map[Type][]slotSpec{
	InitiateRefund: {
		orderIDSlot,
		{
			Name:   "reason_for_action",
			Filled: func(s *session.Session) bool { return s.ReasonForAction != "" },
			Prompt: "Could you tell me the reason for your refund request?",
		},
	},
	InitiateReplacement: {
		orderIDSlot,
		{
			Name:   "reason_for_action",
			Filled: func(s *session.Session) bool { return s.ReasonForAction != "" },
			Prompt: "What issue are you experiencing with the product?",
		},
	},
	BookService: {
		orderIDSlot,
		{
			Name:   "preferred_datetime",
			Filled: func(s *session.Session) bool { return s.PreferredDatetime != "" },
			Prompt: "When would you prefer the service? Please provide a date and time (e.g., 'December 24, 2025 at 2:00 PM').",
		},
	},
}

// CheckMissing 纯函数：给定会话槽位与动作类型，返回缺失槽位与追问话术
//
// 相同输入恒得相同输出；会话为 nil 时按全部缺失处理。
func CheckMissing(s *session.Session, t Type) SlotCheck {
	if s == nil {
		return SlotCheck{
			Missing:  []string{"all"},
			Complete: false,
			Prompt:   "Could you please provide your Order ID?",
		}
	}

	specs := requiredSlots[t]
	missing := make([]string, 0, len(specs))
	prompt := ""
	for _, spec := range specs {
		if spec.Filled(s) {
			continue
		}
		missing = append(missing, spec.Name)
		if prompt == "" {
			prompt = spec.Prompt
		}
	}

	return SlotCheck{
		Missing:  missing,
		Complete: len(missing) == 0,
		Prompt:   prompt,
	}
}
