package agents

import (
	"context"
	"fmt"
	"strings"

	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/pkg/zlog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

const (
	degradedReply = "I apologize, but I'm experiencing technical difficulties. Please try again later."
	failedReply   = "I apologize, but I'm having trouble processing your request. Please try again."
)

const responderPromptTpl = `You are AURA, a professional and empathetic customer support executive.

Your job is to answer the user accurately using ONLY the provided context.
If the context is insufficient, clearly state what additional information is required.

%s

CRITICAL RULES:
- Be clear, polite, and professional.
- Respond in the SAME language as the user.
- Provide step-by-step guidance if troubleshooting.
- Do not invent facts, policies, or procedures.
- DO NOT ask for information already mentioned in "Known Information" above
- Only ask for information that is truly missing and required

Context:
%s

User query:
%s`

// ResponderAgent 应答生成器；会话摘要随提示词注入，避免重复追问已知信息
type ResponderAgent struct {
	chatModel model.BaseChatModel
}

var _ repository.Responder = (*ResponderAgent)(nil)

func NewResponderAgent(chatModel model.BaseChatModel) *ResponderAgent {
	return &ResponderAgent{chatModel: chatModel}
}

func (a *ResponderAgent) Respond(ctx context.Context, retrieved, message, sessionContext string) (string, error) {
	if a.chatModel == nil {
		zlog.Warn("responder agent degraded, chat model not configured")
		return degradedReply, nil
	}

	contextBlock := retrieved
	if contextBlock == "" {
		contextBlock = "No context available"
	}

	prompt := fmt.Sprintf(responderPromptTpl, sessionContext, contextBlock, message)
	resp, err := a.chatModel.Generate(ctx, []*schema.Message{
		{Role: schema.User, Content: prompt},
	})
	if err != nil {
		zlog.Error("responder agent failed", zap.Error(err))
		return failedReply, nil
	}

	answer := strings.TrimSpace(resp.Content)
	zlog.Info("response generated", zap.Int("chars", len(answer)))
	return answer, nil
}
