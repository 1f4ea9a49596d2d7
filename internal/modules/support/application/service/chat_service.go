package service

import (
	"context"
	"strings"

	"AuraLink/internal/modules/support/application/dto/request"
	"AuraLink/internal/modules/support/application/dto/respond"
	"AuraLink/internal/modules/support/infrastructure/pipeline"
	"AuraLink/pkg/xerr"
)

const maxMessageLength = 5000

// ChatService 客服对话服务接口
type ChatService interface {
	Chat(ctx context.Context, req request.ChatRequest) (*respond.ChatRespond, error)
}

type chatServiceImpl struct {
	pipeline *pipeline.ChatPipeline
}

// NewChatService 创建ChatService
func NewChatService(pipe *pipeline.ChatPipeline) ChatService {
	return &chatServiceImpl{pipeline: pipe}
}

func (s *chatServiceImpl) Chat(ctx context.Context, req request.ChatRequest) (*respond.ChatRespond, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, xerr.ErrEmptyMessage
	}
	if len([]rune(message)) > maxMessageLength {
		return nil, xerr.ErrLongMessage
	}

	result := s.pipeline.Execute(ctx, &pipeline.ChatRequest{
		Message:   message,
		SessionID: strings.TrimSpace(req.SessionID),
	})

	var confirmation *string
	if result.ActionConfirmation != "" {
		confirmation = &result.ActionConfirmation
	}

	return &respond.ChatRespond{
		Answer:             result.Answer,
		Intent:             result.Intent,
		RagSources:         result.RagSources,
		Action:             string(result.Action),
		ActionConfirmation: confirmation,
		ActionLog:          result.ActionLog,
		SessionID:          result.SessionID,
	}, nil
}
