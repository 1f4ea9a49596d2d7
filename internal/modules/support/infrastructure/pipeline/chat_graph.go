package pipeline

import (
	"context"
	"fmt"
	"strings"

	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/infrastructure/orderlink"
	"AuraLink/pkg/zlog"

	"go.uber.org/zap"
)

// Node 1: LoadSession - 取会话并记录用户消息
func (p *ChatPipeline) loadSessionNode(ctx context.Context, req *ChatRequest, _ ...any) (*chatState, error) {
	st := &chatState{
		Req:       req,
		SessionID: req.SessionID,
		Action:    action.None,
	}

	if strings.TrimSpace(req.Message) == "" {
		st.Err = fmt.Errorf("message is empty")
		return st, nil
	}

	s, err := p.sessionStore.GetOrCreate(ctx, st.SessionID)
	if err != nil {
		st.Err = err
		return st, nil
	}
	st.Session = s

	if err := p.sessionStore.AppendHistory(ctx, st.SessionID, "user", req.Message); err != nil {
		st.Err = err
		return st, nil
	}

	zlog.Info("chat load session done",
		zap.String("sessionId", st.SessionID),
		zap.String("state", s.ConversationState),
		zap.Int("historyCount", len(s.ConversationHistory)))
	return st, nil
}

// Node 2: LinkOrder - 识别订单号并回查订单，命中则整体刷新订单槽位
func (p *ChatPipeline) linkOrderNode(ctx context.Context, st *chatState, _ ...any) (*chatState, error) {
	if st == nil || st.Err != nil {
		return st, nil
	}

	orderID := orderlink.ExtractOrderID(st.Req.Message)
	if orderID == "" {
		return st, nil
	}
	zlog.Info("order id detected", zap.String("orderId", orderID), zap.String("sessionId", st.SessionID))

	o, err := p.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		zlog.Error("order lookup failed", zap.String("orderId", orderID), zap.Error(err))
		return st, nil
	}
	if o == nil {
		zlog.Warn("order not found", zap.String("orderId", orderID))
		return st, nil
	}

	ok, err := p.sessionStore.BulkUpdate(ctx, st.SessionID, map[string]string{
		"order_id":       o.OrderId,
		"customer_name":  o.CustomerName,
		"customer_email": o.CustomerEmail,
		"customer_phone": o.CustomerPhone,
		"product_id":     o.ProductId,
		"product_name":   o.ProductName,
		"model_number":   o.ModelNumber,
		"serial_number":  o.SerialNumber,
		"purchase_date":  o.PurchaseDate,
		"warranty_years": o.WarrantyYears,
	})
	if err != nil || !ok {
		zlog.Error("order slot refresh failed", zap.String("sessionId", st.SessionID), zap.Error(err))
		return st, nil
	}

	if s, err := p.sessionStore.Get(ctx, st.SessionID); err == nil && s != nil {
		st.Session = s
	}
	zlog.Info("order linked", zap.String("orderId", o.OrderId), zap.String("customer", o.CustomerName))
	return st, nil
}

// Node 3: CaptureSlots - 启发式捕获原因/时间偏好，并渲染已知信息摘要
//
// 只在订单已关联且槽位为空时捕获，已填槽位不覆盖。
func (p *ChatPipeline) captureSlotsNode(ctx context.Context, st *chatState, _ ...any) (*chatState, error) {
	if st == nil || st.Err != nil {
		return st, nil
	}

	msg := strings.TrimSpace(st.Req.Message)
	changed := false

	if st.Session.OrderId != "" && st.Session.ReasonForAction == "" && orderlink.LooksLikeReason(msg) {
		if ok, err := p.sessionStore.Update(ctx, st.SessionID, "reason_for_action", msg); err == nil && ok {
			zlog.Info("reason captured", zap.String("sessionId", st.SessionID))
			changed = true
		}
	}

	if st.Session.OrderId != "" && st.Session.PreferredDatetime == "" && orderlink.LooksLikeDatetime(msg) {
		if ok, err := p.sessionStore.Update(ctx, st.SessionID, "preferred_datetime", msg); err == nil && ok {
			zlog.Info("preferred datetime captured", zap.String("sessionId", st.SessionID))
			changed = true
		}
	}

	if changed {
		if s, err := p.sessionStore.Get(ctx, st.SessionID); err == nil && s != nil {
			st.Session = s
		}
	}

	summary, err := p.sessionStore.ContextSummary(ctx, st.SessionID)
	if err == nil {
		st.SessionContext = summary
	}
	return st, nil
}

// Node 4: Classify - 意图分类
func (p *ChatPipeline) classifyNode(ctx context.Context, st *chatState, _ ...any) (*chatState, error) {
	if st == nil || st.Err != nil {
		return st, nil
	}

	intent, err := p.classifier.Classify(ctx, st.Req.Message)
	if err != nil || intent == "" {
		zlog.Error("classify failed, defaulting to general_query", zap.Error(err))
		intent = action.IntentGeneralQuery
	}
	st.Intent = intent
	zlog.Info("chat classify done", zap.String("sessionId", st.SessionID), zap.String("intent", intent))
	return st, nil
}

// Node 5: Retrieve - 知识库检索
func (p *ChatPipeline) retrieveNode(ctx context.Context, st *chatState, _ ...any) (*chatState, error) {
	if st == nil || st.Err != nil {
		return st, nil
	}

	retrieved, err := p.retriever.Retrieve(ctx, st.Req.Message)
	if err != nil {
		zlog.Error("retrieve failed, empty context", zap.Error(err))
		retrieved = ""
	}
	st.Retrieved = retrieved
	zlog.Info("chat retrieve done", zap.String("sessionId", st.SessionID), zap.Int("chars", len(retrieved)))
	return st, nil
}

// bypassIntents 直达执行分支认定的动作意图集合
var bypassIntents = map[string]bool{
	"initiate_refund":      true,
	"initiate_replacement": true,
	"book_service":         true,
}

// flowDecision 判定是否跳过生成式应答直达执行分支
//
// 意图按动作类型词表比对，而分类器输出的是意图词表（refund/replacement/
// service_booking），两套词表不相交，生产数据下恒为 false，应答始终
// 走生成式分支。
func flowDecision(orderLinked bool, intent string) bool {
	return orderLinked && bypassIntents[intent]
}

// Node 6: FlowControl - 确定性分流：直达分支出固定话术，否则生成并审校应答
func (p *ChatPipeline) flowControlNode(ctx context.Context, st *chatState, _ ...any) (*chatState, error) {
	if st == nil || st.Err != nil {
		return st, nil
	}

	if flowDecision(st.Session.OrderId != "", st.Intent) {
		st.Bypassed = true

		customerName := st.Session.CustomerName
		if customerName == "" {
			customerName = "Customer"
		}
		productName := st.Session.ProductName
		if productName == "" {
			productName = "your product"
		}
		label := action.Label(action.Type(st.Intent))

		st.Answer = fmt.Sprintf(
			"Thank you, %s. I understand you'd like to proceed with a %s for %s (Order ID: %s).\n\nI'm processing your %s request now. Please wait a moment...",
			customerName, label, productName, st.Session.OrderId, label)

		zlog.Info("flow control bypass", zap.String("sessionId", st.SessionID), zap.String("intent", st.Intent))
		return st, nil
	}

	draft, err := p.responder.Respond(ctx, st.Retrieved, st.Req.Message, st.SessionContext)
	if err != nil || draft == "" {
		zlog.Error("responder failed", zap.Error(err))
		draft = "I apologize, but I'm experiencing technical difficulties. Please try again later."
	}

	verified, err := p.verifier.Verify(ctx, draft, st.Retrieved)
	if err != nil || verified == "" {
		verified = draft
	}
	st.Answer = verified
	return st, nil
}

// Node 7: ResolveAction - 意图到动作的固定映射，并生成确认话术
func (p *ChatPipeline) resolveActionNode(ctx context.Context, st *chatState, _ ...any) (*chatState, error) {
	if st == nil || st.Err != nil {
		return st, nil
	}

	st.Action = action.ResolveAction(st.Intent)
	if st.Action == action.None {
		return st, nil
	}

	msg, err := p.confirmer.Confirm(ctx, st.Action)
	if err != nil {
		zlog.Error("confirmation failed", zap.Error(err))
	} else {
		st.Confirmation = msg
	}

	zlog.Info("chat action resolved", zap.String("sessionId", st.SessionID), zap.String("action", string(st.Action)))
	return st, nil
}

// Node 8: SlotGate - 槽位闸门：信息不全时改为追问并撤销动作
func (p *ChatPipeline) slotGateNode(ctx context.Context, st *chatState, _ ...any) (*chatState, error) {
	if st == nil || st.Err != nil {
		return st, nil
	}
	if st.Action == action.None {
		return st, nil
	}

	check := action.CheckMissing(st.Session, st.Action)
	if !check.Complete {
		zlog.Info("missing info for action",
			zap.String("sessionId", st.SessionID),
			zap.String("action", string(st.Action)),
			zap.Strings("missing", check.Missing))
		st.Answer = check.Prompt
		st.Action = action.None
	}
	return st, nil
}

// Node 9: ExecuteAction - 执行动作、替换为简洁确认话术、后台发通知
func (p *ChatPipeline) executeActionNode(ctx context.Context, st *chatState, _ ...any) (*chatState, error) {
	if st == nil || st.Err != nil {
		return st, nil
	}
	if st.Action == action.None {
		return st, nil
	}

	details := &action.UserDetails{
		Email:       st.Session.CustomerEmail,
		Name:        st.Session.CustomerName,
		ProductName: st.Session.ProductName,
		OrderID:     st.Session.OrderId,
		Phone:       st.Session.CustomerPhone,
	}

	result := p.executor.Execute(ctx, st.Action, details)
	st.ActionLog = result

	if result == nil {
		return st, nil
	}

	switch result.Status {
	case action.StatusSuccess:
		st.Answer = fmt.Sprintf(
			"Your %s request has been processed.\n\n**Request ID:** %s\n\nYou'll receive confirmation via email shortly.",
			action.Label(st.Action), result.ActionID)

		p.notifyAsync(st, result)

		if _, err := p.sessionStore.MarkActionCompleted(ctx, st.SessionID, result.ActionID, string(st.Action)); err != nil {
			zlog.Error("mark action completed failed", zap.String("sessionId", st.SessionID), zap.Error(err))
		}

	case action.StatusFailed:
		st.Answer += "\n\nI apologize, but I encountered an error processing your request. Please try again or contact support directly."
	}
	return st, nil
}

// notifyAsync 后台投递通知，结果只记日志，不影响响应
func (p *ChatPipeline) notifyAsync(st *chatState, result *action.ExecResult) {
	if p.notifier == nil {
		return
	}

	data := &action.NotifyData{
		ActionID:    result.ActionID,
		ActionType:  st.Action,
		ProductName: st.Session.ProductName,
	}
	if result.Data != nil {
		data.Date = result.Data.Date
		if st.Action == action.BookService {
			data.ServiceCenter = result.Data.ServiceCenter
			data.ScheduledDate = result.Data.ScheduledDate
			data.TimeSlot = result.Data.TimeSlot
		}
	}

	recipient := st.Session.CustomerEmail
	recipientName := st.Session.CustomerName
	sessionID := st.SessionID

	go func() {
		res := p.notifier.Notify(context.Background(), recipient, recipientName, data)
		if res == nil || !res.Success {
			msg := "nil result"
			if res != nil {
				msg = res.Message
			}
			zlog.Warn("notification issue", zap.String("sessionId", sessionID), zap.String("detail", msg))
			return
		}
		zlog.Info("notification delivered", zap.String("sessionId", sessionID), zap.String("actionId", data.ActionID))
	}()
}

const ragSourcesLimit = 500

// Node 10: Persist - 记录助手应答并组装最终结果
func (p *ChatPipeline) persistNode(ctx context.Context, st *chatState, _ ...any) (*ChatResult, error) {
	if st == nil {
		return &ChatResult{Err: fmt.Errorf("nil state")}, nil
	}
	if st.Err != nil {
		return &ChatResult{SessionID: st.SessionID, Err: st.Err}, nil
	}

	if err := p.sessionStore.AppendHistory(ctx, st.SessionID, "assistant", st.Answer); err != nil {
		zlog.Error("append assistant history failed", zap.String("sessionId", st.SessionID), zap.Error(err))
	}

	zlog.Info("chat persist done",
		zap.String("sessionId", st.SessionID),
		zap.String("intent", st.Intent),
		zap.String("action", string(st.Action)))

	return &ChatResult{
		Answer:             st.Answer,
		Intent:             st.Intent,
		RagSources:         truncateRunes(st.Retrieved, ragSourcesLimit),
		Action:             st.Action,
		ActionConfirmation: st.Confirmation,
		ActionLog:          st.ActionLog,
		SessionID:          st.SessionID,
	}, nil
}

func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
