package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"AuraLink/internal/modules/support/domain/action"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger 进程内台账，可注入分配/落账错误
type fakeLedger struct {
	mu        sync.Mutex
	seq       int
	records   map[action.Type][]action.Record
	nextErr   error
	appendErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[action.Type][]action.Record{}}
}

func (f *fakeLedger) NextID(ctx context.Context, t action.Type) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextErr != nil {
		return "", f.nextErr
	}
	f.seq++
	return fmt.Sprintf("%s-%s-%04d", action.Prefix(t), action.NowDateStr(time.Now()), f.seq), nil
}

func (f *fakeLedger) Append(ctx context.Context, t action.Type, rec *action.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records[t] = append(f.records[t], *rec)
	return nil
}

func (f *fakeLedger) List(ctx context.Context, t action.Type) ([]action.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[t], nil
}

func TestExecutorNoneReturnsNil(t *testing.T) {
	e := NewActionExecutor(newFakeLedger())
	assert.Nil(t, e.Execute(context.Background(), action.None, &action.UserDetails{}))
}

func TestExecutorUnknownTypeFails(t *testing.T) {
	e := NewActionExecutor(newFakeLedger())

	res := e.Execute(context.Background(), action.Type("mystery"), &action.UserDetails{})
	require.NotNil(t, res)
	assert.Equal(t, action.StatusFailed, res.Status)
	assert.Empty(t, res.ActionID)
}

func TestExecutorRefundSuccess(t *testing.T) {
	ledger := newFakeLedger()
	e := NewActionExecutor(ledger)

	res := e.Execute(context.Background(), action.InitiateRefund, &action.UserDetails{
		Email:       "priya@example.com",
		Name:        "Priya Sharma",
		ProductName: "AURA Blender Pro",
		OrderID:     "ORD301",
	})

	require.NotNil(t, res)
	assert.Equal(t, action.StatusSuccess, res.Status)
	assert.Contains(t, res.ActionID, "REF-")
	assert.Contains(t, res.Message, res.ActionID)

	require.NotNil(t, res.Data)
	assert.Equal(t, res.ActionID, res.Data.Id)
	assert.Equal(t, "ORD301", res.Data.OrderId)
	assert.Equal(t, action.StatusProcessing, res.Data.Status)

	records, _ := ledger.List(context.Background(), action.InitiateRefund)
	require.Len(t, records, 1)
	assert.Equal(t, res.ActionID, records[0].Id)
}

func TestExecutorBookServiceDefaults(t *testing.T) {
	e := NewActionExecutor(newFakeLedger())

	res := e.Execute(context.Background(), action.BookService, &action.UserDetails{
		Email: "priya@example.com",
		Phone: "555-0101",
	})

	require.NotNil(t, res)
	require.NotNil(t, res.Data)
	assert.Equal(t, "N/A", res.Data.ProductName)
	assert.Equal(t, "Nearest Center", res.Data.ServiceCenter)
	assert.Equal(t, "TBD", res.Data.ScheduledDate)
	assert.Equal(t, "TBD", res.Data.TimeSlot)
	assert.Equal(t, "555-0101", res.Data.ContactNumber)
}

func TestExecutorFallbackIDOnAllocationFailure(t *testing.T) {
	ledger := newFakeLedger()
	ledger.nextErr = fmt.Errorf("disk on fire")
	e := NewActionExecutor(ledger)

	res := e.Execute(context.Background(), action.InitiateRefund, &action.UserDetails{})
	require.NotNil(t, res)
	assert.Equal(t, fmt.Sprintf("ERR-%s-0000", action.NowDateStr(time.Now())), res.ActionID)
	assert.Equal(t, action.StatusSuccess, res.Status)
}

func TestExecutorPartialOnAppendFailure(t *testing.T) {
	ledger := newFakeLedger()
	ledger.appendErr = fmt.Errorf("write failed")
	e := NewActionExecutor(ledger)

	res := e.Execute(context.Background(), action.InitiateReplacement, &action.UserDetails{})
	require.NotNil(t, res)
	assert.Equal(t, action.StatusPartial, res.Status)
	assert.Contains(t, res.ActionID, "REP-")
}

func TestExecutorNilDetails(t *testing.T) {
	e := NewActionExecutor(newFakeLedger())

	res := e.Execute(context.Background(), action.InitiateRefund, nil)
	require.NotNil(t, res)
	assert.Equal(t, action.StatusSuccess, res.Status)
	assert.Equal(t, "N/A", res.Data.ProductName)
}
