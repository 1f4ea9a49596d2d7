package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/order"
	"AuraLink/internal/modules/support/domain/session"
	"AuraLink/internal/modules/support/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	orders map[string]*order.Order
	err    error
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orders[strings.ToUpper(orderID)], nil
}

type fakeClassifier struct {
	intent string
	err    error
}

func (f *fakeClassifier) Classify(ctx context.Context, message string) (string, error) {
	return f.intent, f.err
}

type fakeRetriever struct {
	text string
	err  error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	return f.text, f.err
}

type fakeResponder struct {
	reply       string
	err         error
	mu          sync.Mutex
	lastContext string
}

func (f *fakeResponder) Respond(ctx context.Context, retrieved, message, sessionContext string) (string, error) {
	f.mu.Lock()
	f.lastContext = sessionContext
	f.mu.Unlock()
	return f.reply, f.err
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(ctx context.Context, draft, retrieved string) (string, error) {
	return draft, nil
}

type fakeConfirmer struct{}

func (fakeConfirmer) Confirm(ctx context.Context, t action.Type) (string, error) {
	return fmt.Sprintf("I can set up your %s right away. Shall I proceed?", action.Label(t)), nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	calls  []string
	notify chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{notify: make(chan struct{}, 8)}
}

func (f *fakeNotifier) Notify(ctx context.Context, recipient, recipientName string, data *action.NotifyData) *action.NotifyResult {
	f.mu.Lock()
	f.calls = append(f.calls, recipient)
	f.mu.Unlock()
	f.notify <- struct{}{}
	return &action.NotifyResult{Success: true, Message: "delivered"}
}

func (f *fakeNotifier) waitForCall(t *testing.T) {
	t.Helper()
	select {
	case <-f.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was never called")
	}
}

type pipelineFixture struct {
	pipe     *ChatPipeline
	store    *persistence.MemorySessionStore
	ledger   *fakeLedger
	notifier *fakeNotifier
}

func newFixture(t *testing.T, classifier *fakeClassifier, responder *fakeResponder) *pipelineFixture {
	t.Helper()

	store := persistence.NewMemorySessionStore()
	ledger := newFakeLedger()
	notifier := newFakeNotifier()
	repo := &fakeOrderRepo{orders: map[string]*order.Order{
		"ORD301": {
			OrderId:       "ORD301",
			CustomerName:  "Priya Sharma",
			CustomerEmail: "priya@example.com",
			CustomerPhone: "555-0101",
			ProductId:     "P-77",
			ProductName:   "AURA Blender Pro",
			ModelNumber:   "AB-900",
			SerialNumber:  "SN-1234",
			PurchaseDate:  "2025-11-02",
			WarrantyYears: "2",
		},
	}}

	pipe, err := NewChatPipeline(
		store,
		repo,
		classifier,
		&fakeRetriever{text: "Manual excerpt: hold the reset button for 5 seconds."},
		responder,
		fakeVerifier{},
		fakeConfirmer{},
		notifier,
		NewActionExecutor(ledger),
	)
	require.NoError(t, err)

	return &pipelineFixture{pipe: pipe, store: store, ledger: ledger, notifier: notifier}
}

func TestPipelineRequiresDependencies(t *testing.T) {
	_, err := NewChatPipeline(nil, nil, nil, nil, nil, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestChatGeneralQuery(t *testing.T) {
	fx := newFixture(t,
		&fakeClassifier{intent: action.IntentGeneralQuery},
		&fakeResponder{reply: "You can find the warranty terms on the last page of the manual."})

	res := fx.pipe.Execute(context.Background(), &ChatRequest{Message: "Where are the warranty terms?", SessionID: "s1"})

	require.NotNil(t, res)
	assert.Equal(t, "You can find the warranty terms on the last page of the manual.", res.Answer)
	assert.Equal(t, action.IntentGeneralQuery, res.Intent)
	assert.Equal(t, action.None, res.Action)
	assert.Nil(t, res.ActionLog)
	assert.Empty(t, res.ActionConfirmation)
	assert.Equal(t, "s1", res.SessionID)
	assert.Contains(t, res.RagSources, "Manual excerpt")

	s, _ := fx.store.Get(context.Background(), "s1")
	require.NotNil(t, s)
	require.Len(t, s.ConversationHistory, 2)
	assert.Equal(t, "user", s.ConversationHistory[0].Role)
	assert.Equal(t, "assistant", s.ConversationHistory[1].Role)
}

func TestChatGeneratesSessionID(t *testing.T) {
	fx := newFixture(t,
		&fakeClassifier{intent: action.IntentGeneralQuery},
		&fakeResponder{reply: "Hello!"})

	res := fx.pipe.Execute(context.Background(), &ChatRequest{Message: "hi"})
	require.NotNil(t, res)
	assert.NotEmpty(t, res.SessionID)

	s, _ := fx.store.Get(context.Background(), res.SessionID)
	assert.NotNil(t, s)
}

func TestChatEmptyMessage(t *testing.T) {
	fx := newFixture(t,
		&fakeClassifier{intent: action.IntentGeneralQuery},
		&fakeResponder{reply: "Hello!"})

	res := fx.pipe.Execute(context.Background(), &ChatRequest{Message: "   ", SessionID: "s1"})

	require.NotNil(t, res)
	assert.Equal(t, criticalErrorAnswer, res.Answer)
	assert.Equal(t, action.IntentError, res.Intent)
	assert.Equal(t, action.None, res.Action)
	assert.Equal(t, "s1", res.SessionID)
}

func TestChatClassifierFailureDefaultsToGeneralQuery(t *testing.T) {
	fx := newFixture(t,
		&fakeClassifier{err: fmt.Errorf("model timeout")},
		&fakeResponder{reply: "Let me help with that."})

	res := fx.pipe.Execute(context.Background(), &ChatRequest{Message: "my blender hums but won't spin", SessionID: "s1"})

	require.NotNil(t, res)
	assert.Equal(t, action.IntentGeneralQuery, res.Intent)
	assert.Equal(t, "Let me help with that.", res.Answer)
	assert.Equal(t, action.None, res.Action)
}

func TestChatRefundMissingOrderID(t *testing.T) {
	fx := newFixture(t,
		&fakeClassifier{intent: action.IntentRefund},
		&fakeResponder{reply: "I can help with a refund."})

	res := fx.pipe.Execute(context.Background(), &ChatRequest{Message: "I want a refund", SessionID: "s1"})

	require.NotNil(t, res)
	assert.Equal(t, "To process your request, I'll need your **Order ID** (e.g., ORD301).", res.Answer)
	assert.Equal(t, action.None, res.Action)
	assert.Nil(t, res.ActionLog)
	// 确认话术保留，仅展示用
	assert.NotEmpty(t, res.ActionConfirmation)
}

func TestChatRefundFullFlow(t *testing.T) {
	fx := newFixture(t,
		&fakeClassifier{intent: action.IntentRefund},
		&fakeResponder{reply: "unused"})

	res := fx.pipe.Execute(context.Background(), &ChatRequest{
		Message:   "My order is ORD301 and it arrived completely shattered",
		SessionID: "s1",
	})

	require.NotNil(t, res)
	assert.Equal(t, action.InitiateRefund, res.Action)
	require.NotNil(t, res.ActionLog)
	assert.Equal(t, action.StatusSuccess, res.ActionLog.Status)
	assert.Contains(t, res.ActionLog.ActionID, "REF-")

	assert.Contains(t, res.Answer, "Your refund request has been processed.")
	assert.Contains(t, res.Answer, "**Request ID:** "+res.ActionLog.ActionID)
	assert.Contains(t, res.Answer, "You'll receive confirmation via email shortly.")

	records, _ := fx.ledger.List(context.Background(), action.InitiateRefund)
	require.Len(t, records, 1)
	assert.Equal(t, "ORD301", records[0].OrderId)
	assert.Equal(t, "priya@example.com", records[0].UserEmail)
	assert.Equal(t, "AURA Blender Pro", records[0].ProductName)

	fx.notifier.waitForCall(t)
	fx.notifier.mu.Lock()
	assert.Equal(t, []string{"priya@example.com"}, fx.notifier.calls)
	fx.notifier.mu.Unlock()

	s, _ := fx.store.Get(context.Background(), "s1")
	require.NotNil(t, s)
	assert.Equal(t, session.StateActionExecuted, s.ConversationState)
	assert.Equal(t, res.ActionLog.ActionID, s.ActionId)
	assert.Equal(t, string(action.InitiateRefund), s.ActionType)
	assert.Equal(t, "ORD301", s.OrderId)
	assert.Equal(t, "My order is ORD301 and it arrived completely shattered", s.ReasonForAction)
}

func TestChatServiceBookingTwoTurns(t *testing.T) {
	fx := newFixture(t,
		&fakeClassifier{intent: action.IntentServiceBooking},
		&fakeResponder{reply: "unused"})

	// 第一轮：带订单号但没有时间偏好，闸门追问
	res := fx.pipe.Execute(context.Background(), &ChatRequest{
		Message:   "Book a service visit for ORD301",
		SessionID: "s1",
	})
	require.NotNil(t, res)
	assert.Equal(t, action.None, res.Action)
	assert.Equal(t,
		"When would you prefer the service? Please provide a date and time (e.g., 'December 24, 2025 at 2:00 PM').",
		res.Answer)

	// 第二轮：补时间偏好，动作执行
	res = fx.pipe.Execute(context.Background(), &ChatRequest{
		Message:   "Tomorrow at 2pm works",
		SessionID: "s1",
	})
	require.NotNil(t, res)
	assert.Equal(t, action.BookService, res.Action)
	require.NotNil(t, res.ActionLog)
	assert.Contains(t, res.ActionLog.ActionID, "SRV-")
	assert.Contains(t, res.Answer, "Your service appointment request has been processed.")

	s, _ := fx.store.Get(context.Background(), "s1")
	assert.Equal(t, "Tomorrow at 2pm works", s.PreferredDatetime)
}

func TestChatSessionContextFedToResponder(t *testing.T) {
	responder := &fakeResponder{reply: "Sure."}
	fx := newFixture(t, &fakeClassifier{intent: action.IntentGeneralQuery}, responder)

	_ = fx.pipe.Execute(context.Background(), &ChatRequest{
		Message:   "Tell me about my order ORD301",
		SessionID: "s1",
	})

	responder.mu.Lock()
	defer responder.mu.Unlock()
	assert.Contains(t, responder.lastContext, "Order ID: ORD301")
	assert.Contains(t, responder.lastContext, "Customer: Priya Sharma")
}

func TestChatUnknownOrderIgnored(t *testing.T) {
	fx := newFixture(t,
		&fakeClassifier{intent: action.IntentGeneralQuery},
		&fakeResponder{reply: "I couldn't find that order."})

	res := fx.pipe.Execute(context.Background(), &ChatRequest{
		Message:   "status of ORD999 please",
		SessionID: "s1",
	})

	require.NotNil(t, res)
	assert.Equal(t, "I couldn't find that order.", res.Answer)

	s, _ := fx.store.Get(context.Background(), "s1")
	assert.Empty(t, s.OrderId)
}

func TestFlowDecision(t *testing.T) {
	// 分类器词表与动作词表不相交，生成式分支始终生效
	for _, intent := range []string{
		action.IntentRefund, action.IntentReplacement, action.IntentServiceBooking,
		action.IntentGeneralQuery, action.IntentTroubleshoot,
	} {
		assert.False(t, flowDecision(true, intent), intent)
	}

	assert.True(t, flowDecision(true, "initiate_refund"))
	assert.False(t, flowDecision(false, "initiate_refund"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "abcde", truncateRunes("abcdefgh", 5))
	assert.Equal(t, "日本語", truncateRunes("日本語のテキスト", 3))
}
