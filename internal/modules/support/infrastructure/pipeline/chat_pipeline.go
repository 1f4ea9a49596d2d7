package pipeline

import (
	"context"
	"fmt"
	"strings"

	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/internal/modules/support/domain/session"
	"AuraLink/pkg/util"
	"AuraLink/pkg/zlog"

	"github.com/cloudwego/eino/compose"
	"go.uber.org/zap"
)

// ChatRequest Chat Pipeline 输入请求
type ChatRequest struct {
	Message   string // 用户消息（必填）
	SessionID string // 会话ID（可空，不传则新建会话）
}

// ChatResult Chat Pipeline 输出结果（即 /chat 响应契约）
type ChatResult struct {
	Answer             string             // 最终应答
	Intent             string             // 意图标签
	RagSources         string             // 检索片段（调试面板用，截断到500字符）
	Action             action.Type        // 实际执行的动作
	ActionConfirmation string             // 确认话术（仅信息展示）
	ActionLog          *action.ExecResult // 执行日志
	SessionID          string             // 会话ID
	Err                error              // 错误（如果有）
}

const criticalErrorAnswer = "I apologize, but I encountered an error processing your request. Please try again."

// ChatPipeline 客服对话管道（基于 Eino Graph）
//
// 节点流：LoadSession → LinkOrder → CaptureSlots → Classify → Retrieve →
// FlowControl → ResolveAction → SlotGate → ExecuteAction → Persist
type ChatPipeline struct {
	sessionStore repository.SessionStore
	orderRepo    repository.OrderRepository
	classifier   repository.IntentClassifier
	retriever    repository.ContextRetriever
	responder    repository.Responder
	verifier     repository.Verifier
	confirmer    repository.ConfirmationAgent
	notifier     repository.Notifier
	executor     *ActionExecutor
	r            compose.Runnable[*ChatRequest, *ChatResult]
}

// NewChatPipeline 创建对话管道
//
// notifier 可为 nil（不发通知）；其余依赖必填。
func NewChatPipeline(
	sessionStore repository.SessionStore,
	orderRepo repository.OrderRepository,
	classifier repository.IntentClassifier,
	retriever repository.ContextRetriever,
	responder repository.Responder,
	verifier repository.Verifier,
	confirmer repository.ConfirmationAgent,
	notifier repository.Notifier,
	executor *ActionExecutor,
) (*ChatPipeline, error) {
	if sessionStore == nil || orderRepo == nil || classifier == nil || retriever == nil ||
		responder == nil || verifier == nil || confirmer == nil || executor == nil {
		return nil, fmt.Errorf("required dependencies are nil")
	}

	p := &ChatPipeline{
		sessionStore: sessionStore,
		orderRepo:    orderRepo,
		classifier:   classifier,
		retriever:    retriever,
		responder:    responder,
		verifier:     verifier,
		confirmer:    confirmer,
		notifier:     notifier,
		executor:     executor,
	}

	r, err := p.buildGraph(context.Background())
	if err != nil {
		return nil, err
	}
	p.r = r
	return p, nil
}

// Execute 执行对话管道
//
// 同一会话严格串行处理；任何异常（含 panic）都收敛为固定的道歉响应，
// 接口层永远拿到完整契约对象。
func (p *ChatPipeline) Execute(ctx context.Context, req *ChatRequest) (result *ChatResult) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = util.GenerateSessionID()
	}

	defer func() {
		if r := recover(); r != nil {
			zlog.Error("chat pipeline panic", zap.Any("panic", r), zap.String("sessionId", sessionID))
			result = errorResult(sessionID)
		}
	}()

	unlock := p.sessionStore.LockSession(sessionID)
	defer unlock()

	res, err := p.r.Invoke(ctx, &ChatRequest{Message: req.Message, SessionID: sessionID})
	if err != nil || res == nil || res.Err != nil {
		zlog.Error("chat pipeline failed",
			zap.String("sessionId", sessionID),
			zap.Error(firstError(err, res)))
		return errorResult(sessionID)
	}
	return res
}

func firstError(err error, res *ChatResult) error {
	if err != nil {
		return err
	}
	if res != nil && res.Err != nil {
		return res.Err
	}
	return fmt.Errorf("nil result")
}

func errorResult(sessionID string) *ChatResult {
	if sessionID == "" {
		sessionID = "unknown"
	}
	return &ChatResult{
		Answer:    criticalErrorAnswer,
		Intent:    action.IntentError,
		Action:    action.None,
		SessionID: sessionID,
	}
}

// buildGraph 构建 Eino Graph（10个节点）
func (p *ChatPipeline) buildGraph(ctx context.Context) (compose.Runnable[*ChatRequest, *ChatResult], error) {
	const (
		LoadSession   = "LoadSession"
		LinkOrder     = "LinkOrder"
		CaptureSlots  = "CaptureSlots"
		Classify      = "Classify"
		Retrieve      = "Retrieve"
		FlowControl   = "FlowControl"
		ResolveAction = "ResolveAction"
		SlotGate      = "SlotGate"
		ExecuteAction = "ExecuteAction"
		Persist       = "Persist"
	)

	g := compose.NewGraph[*ChatRequest, *ChatResult]()

	_ = g.AddLambdaNode(LoadSession, compose.InvokableLambdaWithOption(p.loadSessionNode), compose.WithNodeName(LoadSession))
	_ = g.AddLambdaNode(LinkOrder, compose.InvokableLambdaWithOption(p.linkOrderNode), compose.WithNodeName(LinkOrder))
	_ = g.AddLambdaNode(CaptureSlots, compose.InvokableLambdaWithOption(p.captureSlotsNode), compose.WithNodeName(CaptureSlots))
	_ = g.AddLambdaNode(Classify, compose.InvokableLambdaWithOption(p.classifyNode), compose.WithNodeName(Classify))
	_ = g.AddLambdaNode(Retrieve, compose.InvokableLambdaWithOption(p.retrieveNode), compose.WithNodeName(Retrieve))
	_ = g.AddLambdaNode(FlowControl, compose.InvokableLambdaWithOption(p.flowControlNode), compose.WithNodeName(FlowControl))
	_ = g.AddLambdaNode(ResolveAction, compose.InvokableLambdaWithOption(p.resolveActionNode), compose.WithNodeName(ResolveAction))
	_ = g.AddLambdaNode(SlotGate, compose.InvokableLambdaWithOption(p.slotGateNode), compose.WithNodeName(SlotGate))
	_ = g.AddLambdaNode(ExecuteAction, compose.InvokableLambdaWithOption(p.executeActionNode), compose.WithNodeName(ExecuteAction))
	_ = g.AddLambdaNode(Persist, compose.InvokableLambdaWithOption(p.persistNode), compose.WithNodeName(Persist))

	_ = g.AddEdge(compose.START, LoadSession)
	_ = g.AddEdge(LoadSession, LinkOrder)
	_ = g.AddEdge(LinkOrder, CaptureSlots)
	_ = g.AddEdge(CaptureSlots, Classify)
	_ = g.AddEdge(Classify, Retrieve)
	_ = g.AddEdge(Retrieve, FlowControl)
	_ = g.AddEdge(FlowControl, ResolveAction)
	_ = g.AddEdge(ResolveAction, SlotGate)
	_ = g.AddEdge(SlotGate, ExecuteAction)
	_ = g.AddEdge(ExecuteAction, Persist)
	_ = g.AddEdge(Persist, compose.END)

	return g.Compile(ctx, compose.WithGraphName("ChatPipeline"), compose.WithNodeTriggerMode(compose.AllPredecessor))
}

// chatState Graph内部状态（在节点间传递）
type chatState struct {
	Req            *ChatRequest
	SessionID      string
	Session        *session.Session
	SessionContext string
	Intent         string
	Retrieved      string
	Answer         string
	Bypassed       bool
	Action         action.Type
	Confirmation   string
	ActionLog      *action.ExecResult
	Err            error
}
