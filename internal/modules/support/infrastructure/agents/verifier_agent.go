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

const verifierPromptTpl = `You are a response quality verifier.

Context:
%s

Draft Response:
%s

Task: Verify if the draft response is accurate, helpful, and professional.
If it's good, return it unchanged. If it needs minor fixes, return the corrected version.

Rules:
- Keep the tone professional and friendly
- Ensure accuracy
- Only output the final response text (no explanations)`

// VerifierAgent 应答审校器；任何失败都返回原稿，审校只增益不阻断
type VerifierAgent struct {
	chatModel model.BaseChatModel
}

var _ repository.Verifier = (*VerifierAgent)(nil)

func NewVerifierAgent(chatModel model.BaseChatModel) *VerifierAgent {
	return &VerifierAgent{chatModel: chatModel}
}

func (a *VerifierAgent) Verify(ctx context.Context, draft, retrieved string) (string, error) {
	if a.chatModel == nil {
		return draft, nil
	}

	prompt := fmt.Sprintf(verifierPromptTpl, retrieved, draft)
	resp, err := a.chatModel.Generate(ctx, []*schema.Message{
		{Role: schema.User, Content: prompt},
	})
	if err != nil {
		zlog.Error("verifier agent failed, returning draft", zap.Error(err))
		return draft, nil
	}

	verified := strings.TrimSpace(resp.Content)
	if verified == "" {
		return draft, nil
	}
	zlog.Info("response verified")
	return verified, nil
}
