package agents

import (
	"context"
	"strings"

	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/pkg/zlog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

const intentPrompt = `You are an intent classification agent for a customer support system.

Your task is to classify the user query into exactly ONE of the following intent labels:

- troubleshoot
- refund
- replacement
- service_booking
- order_status
- product_information
- general_query

Rules:
- Choose only ONE label.
- Do not explain your answer.
- Do not add extra text.
- Output only the label.`

// IntentAgent 意图分类器
//
// 模型不可用、调用失败或输出不在词表内时一律回落 general_query，
// 保证管道永远拿到合法意图。
type IntentAgent struct {
	chatModel model.BaseChatModel
}

var _ repository.IntentClassifier = (*IntentAgent)(nil)

func NewIntentAgent(chatModel model.BaseChatModel) *IntentAgent {
	return &IntentAgent{chatModel: chatModel}
}

func (a *IntentAgent) Classify(ctx context.Context, message string) (string, error) {
	if a.chatModel == nil {
		zlog.Warn("intent agent degraded, chat model not configured")
		return action.IntentGeneralQuery, nil
	}

	msgs := []*schema.Message{
		{Role: schema.System, Content: intentPrompt},
		{Role: schema.User, Content: "User query:\n" + message},
	}
	resp, err := a.chatModel.Generate(ctx, msgs)
	if err != nil {
		zlog.Error("intent agent failed", zap.Error(err))
		return action.IntentGeneralQuery, nil
	}

	intent := strings.ToLower(strings.TrimSpace(resp.Content))
	if !action.ValidIntents[intent] {
		zlog.Warn("invalid intent, defaulting to general_query", zap.String("intent", intent))
		return action.IntentGeneralQuery, nil
	}

	zlog.Info("intent classified", zap.String("intent", intent))
	return intent, nil
}
