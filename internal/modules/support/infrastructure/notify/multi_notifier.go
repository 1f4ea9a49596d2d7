package notify

import (
	"context"

	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/repository"
)

// MultiNotifier 按序调用多个通知器；首个为主通道，其结果作为整体结果
type MultiNotifier struct {
	notifiers []repository.Notifier
}

var _ repository.Notifier = (*MultiNotifier)(nil)

func NewMultiNotifier(notifiers ...repository.Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) Notify(ctx context.Context, recipient, recipientName string, data *action.NotifyData) *action.NotifyResult {
	if len(m.notifiers) == 0 {
		return &action.NotifyResult{Success: false, Message: "no notifier configured"}
	}

	var primary *action.NotifyResult
	for i, n := range m.notifiers {
		res := n.Notify(ctx, recipient, recipientName, data)
		if i == 0 {
			primary = res
		}
	}
	return primary
}
