package pipeline

import (
	"context"
	"fmt"
	"time"

	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/pkg/zlog"

	"go.uber.org/zap"
)

// ActionExecutor 动作执行器：分配ID、构造记录、落账
//
// 执行结果只描述事实（落账成功/部分成功/失败），话术由管道组装。
type ActionExecutor struct {
	ledger repository.ActionLedger
}

func NewActionExecutor(ledger repository.ActionLedger) *ActionExecutor {
	return &ActionExecutor{ledger: ledger}
}

// Execute 执行动作；动作为 none 返回 nil
func (e *ActionExecutor) Execute(ctx context.Context, t action.Type, details *action.UserDetails) *action.ExecResult {
	if t == action.None {
		return nil
	}

	zlog.Info("executing action", zap.String("action", string(t)))

	if action.LedgerName(t) == "" {
		return &action.ExecResult{
			Action:  t,
			Status:  action.StatusFailed,
			Message: fmt.Sprintf("Unknown action type: %s", t),
		}
	}

	actionID, err := e.ledger.NextID(ctx, t)
	if err != nil {
		// ID 分配失败时给兜底ID，保证后续流程仍有可追踪标识
		zlog.Error("action id allocation failed", zap.Error(err))
		actionID = fmt.Sprintf("ERR-%s-0000", action.NowDateStr(time.Now()))
	}

	rec := e.buildRecord(t, actionID, details)

	status := action.StatusSuccess
	if err := e.ledger.Append(ctx, t, rec); err != nil {
		zlog.Error("action ledger append failed", zap.String("actionId", actionID), zap.Error(err))
		status = action.StatusPartial
	}

	result := &action.ExecResult{
		Action:   t,
		ActionID: actionID,
		Status:   status,
		Message:  fmt.Sprintf("Action '%s' has been logged with ID: %s", t, actionID),
		Data:     rec,
	}
	zlog.Info("action executed", zap.String("actionId", actionID), zap.String("status", status))
	return result
}

func (e *ActionExecutor) buildRecord(t action.Type, actionID string, details *action.UserDetails) *action.Record {
	if details == nil {
		details = &action.UserDetails{}
	}

	productName := details.ProductName
	if productName == "" {
		productName = "N/A"
	}

	rec := &action.Record{
		Id:          actionID,
		Type:        t,
		ProductName: productName,
		UserEmail:   details.Email,
		UserName:    details.Name,
		OrderId:     details.OrderID,
		Date:        time.Now().Format("2006-01-02 15:04:05"),
		Status:      action.StatusProcessing,
	}

	if t == action.BookService {
		rec.UserAddress = details.Address
		rec.ContactNumber = details.Phone
		rec.ServiceCenter = details.ServiceCenter
		if rec.ServiceCenter == "" {
			rec.ServiceCenter = "Nearest Center"
		}
		rec.ScheduledDate = details.ScheduledDate
		if rec.ScheduledDate == "" {
			rec.ScheduledDate = "TBD"
		}
		rec.TimeSlot = details.TimeSlot
		if rec.TimeSlot == "" {
			rec.TimeSlot = "TBD"
		}
	}
	return rec
}
