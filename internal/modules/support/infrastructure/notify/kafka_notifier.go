package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/internal/modules/support/infrastructure/mq"
	"AuraLink/pkg/zlog"

	"go.uber.org/zap"
)

// notificationEvent 通知事件消息体（下游消费做短信/工单等扩展渠道）
type notificationEvent struct {
	Recipient     string             `json:"recipient"`
	RecipientName string             `json:"recipient_name,omitempty"`
	Data          *action.NotifyData `json:"data"`
}

// KafkaNotifier 把动作完成事件发布到通知主题
type KafkaNotifier struct {
	publisher mq.Publisher
	topic     string
}

var _ repository.Notifier = (*KafkaNotifier)(nil)

func NewKafkaNotifier(publisher mq.Publisher, topic string) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, topic: topic}
}

func (n *KafkaNotifier) Notify(ctx context.Context, recipient, recipientName string, data *action.NotifyData) *action.NotifyResult {
	if n.publisher == nil || n.topic == "" {
		return &action.NotifyResult{Success: false, Message: "notification topic not configured"}
	}

	value, err := json.Marshal(notificationEvent{
		Recipient:     recipient,
		RecipientName: recipientName,
		Data:          data,
	})
	if err != nil {
		return &action.NotifyResult{Success: false, Message: err.Error()}
	}

	res, err := n.publisher.Publish(ctx, mq.Message{
		Topic: n.topic,
		Key:   []byte(data.ActionID),
		Value: value,
		Headers: map[string]string{
			"action_type": string(data.ActionType),
		},
	})
	if err != nil {
		zlog.Error("notification publish failed", zap.String("actionId", data.ActionID), zap.Error(err))
		return &action.NotifyResult{Success: false, Message: err.Error()}
	}

	zlog.Info("notification published",
		zap.String("actionId", data.ActionID),
		zap.Int32("partition", res.Partition),
		zap.Int64("offset", res.Offset))
	return &action.NotifyResult{Success: true, Message: fmt.Sprintf("published to %s", n.topic)}
}
