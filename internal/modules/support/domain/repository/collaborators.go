package repository

import (
	"context"

	"AuraLink/internal/modules/support/domain/action"
)

// IntentClassifier 意图分类器
//
// 输出必须落在合法意图词表内；实现对非法输出与调用失败统一回落 general_query。
type IntentClassifier interface {
	Classify(ctx context.Context, message string) (string, error)
}

// ContextRetriever 知识检索器；返回拼接后的参考片段文本（可为空串）
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Responder 应答生成器；sessionContext 为已知信息摘要（可为空串）
type Responder interface {
	Respond(ctx context.Context, retrieved, message, sessionContext string) (string, error)
}

// Verifier 应答审校器；失败时返回原稿
type Verifier interface {
	Verify(ctx context.Context, draft, retrieved string) (string, error)
}

// ConfirmationAgent 动作确认话术生成器（仅润色文案，不决定是否执行）
type ConfirmationAgent interface {
	Confirm(ctx context.Context, actionType action.Type) (string, error)
}

// Notifier 动作完成通知投递（邮件/消息队列）；结果只记日志，不影响响应
type Notifier interface {
	Notify(ctx context.Context, recipient, recipientName string, data *action.NotifyData) *action.NotifyResult
}
