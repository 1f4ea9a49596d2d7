package agents

import (
	"context"
	"fmt"
	"strings"

	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/pkg/zlog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

const confirmPromptTpl = `You are confirming an operational action with the customer.

Politely ask for confirmation to proceed.
Clearly explain what will happen next.

Action:
%s`

// ConfirmAgent 动作确认话术生成器
//
// 话术仅作信息展示，不构成执行门禁；动作为 none 时返回空串。
type ConfirmAgent struct {
	chatModel model.BaseChatModel
}

var _ repository.ConfirmationAgent = (*ConfirmAgent)(nil)

func NewConfirmAgent(chatModel model.BaseChatModel) *ConfirmAgent {
	return &ConfirmAgent{chatModel: chatModel}
}

func (a *ConfirmAgent) Confirm(ctx context.Context, actionType action.Type) (string, error) {
	if actionType == action.None {
		return "", nil
	}

	fallback := fmt.Sprintf("To proceed with %s, please confirm.", actionType)
	if a.chatModel == nil {
		return fallback, nil
	}

	prompt := fmt.Sprintf(confirmPromptTpl, actionType)
	resp, err := a.chatModel.Generate(ctx, []*schema.Message{
		{Role: schema.User, Content: prompt},
	})
	if err != nil {
		zlog.Error("confirmation agent failed", zap.Error(err))
		return fallback, nil
	}

	msg := strings.TrimSpace(resp.Content)
	if msg == "" {
		return fallback, nil
	}
	zlog.Info("confirmation message generated", zap.String("action", string(actionType)))
	return msg, nil
}
