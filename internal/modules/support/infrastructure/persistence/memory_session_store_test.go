package persistence

import (
	"context"
	"sync"
	"testing"

	"AuraLink/internal/modules/support/domain/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetOrCreate(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	s, err := store.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "s1", s.SessionId)
	assert.Equal(t, session.StateCollectingInfo, s.ConversationState)

	// 重复获取拿到同一会话
	again, err := store.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s.SessionId, again.SessionId)

	ids, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	store := NewMemorySessionStore()

	s, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	_, _ = store.GetOrCreate(ctx, "s1")

	ok, err := store.Update(ctx, "s1", "order_id", "ORD301")
	require.NoError(t, err)
	assert.True(t, ok)

	s, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ORD301", s.OrderId)

	// 未知槽位返回 false
	ok, err = store.Update(ctx, "s1", "not_a_slot", "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreUpdateAutoCreates(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	ok, err := store.Update(ctx, "fresh", "order_id", "ORD301")
	require.NoError(t, err)
	assert.True(t, ok)

	s, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "ORD301", s.OrderId)
	assert.Equal(t, session.StateCollectingInfo, s.ConversationState)
}

func TestMemoryStoreBulkUpdateAutoCreates(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	ok, err := store.BulkUpdate(ctx, "fresh", map[string]string{"order_id": "ORD301"})
	require.NoError(t, err)
	assert.True(t, ok)

	s, _ := store.Get(ctx, "fresh")
	require.NotNil(t, s)
	assert.Equal(t, "ORD301", s.OrderId)
}

func TestMemoryStoreBulkUpdate(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	_, _ = store.GetOrCreate(ctx, "s1")

	ok, err := store.BulkUpdate(ctx, "s1", map[string]string{
		"order_id":      "ORD301",
		"customer_name": "Priya Sharma",
		"product_name":  "AURA Blender Pro",
		"unknown_slot":  "ignored",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	s, _ := store.Get(ctx, "s1")
	assert.Equal(t, "ORD301", s.OrderId)
	assert.Equal(t, "Priya Sharma", s.CustomerName)
	assert.Equal(t, "AURA Blender Pro", s.ProductName)
}

func TestMemoryStoreReadsReturnCopies(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	_, _ = store.GetOrCreate(ctx, "s1")

	s, _ := store.Get(ctx, "s1")
	s.OrderId = "ORD999"

	fresh, _ := store.Get(ctx, "s1")
	assert.Empty(t, fresh.OrderId)
}

func TestMemoryStoreAppendHistory(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	_, _ = store.GetOrCreate(ctx, "s1")

	require.NoError(t, store.AppendHistory(ctx, "s1", "user", "hi"))
	require.NoError(t, store.AppendHistory(ctx, "s1", "assistant", "hello"))

	s, _ := store.Get(ctx, "s1")
	require.NotNil(t, s)
	require.Len(t, s.ConversationHistory, 2)
	assert.Equal(t, "user", s.ConversationHistory[0].Role)
	assert.Equal(t, "hi", s.ConversationHistory[0].Message)
	assert.False(t, s.ConversationHistory[0].Timestamp.IsZero())

	// 会话不存在则自动新建再追加
	require.NoError(t, store.AppendHistory(ctx, "fresh", "user", "hi"))
	fresh, _ := store.Get(ctx, "fresh")
	require.NotNil(t, fresh)
	require.Len(t, fresh.ConversationHistory, 1)
	assert.Equal(t, "hi", fresh.ConversationHistory[0].Message)
}

func TestMemoryStoreSetState(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	_, _ = store.GetOrCreate(ctx, "s1")

	ok, err := store.SetState(ctx, "s1", session.StateReadyForAction)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.SetState(ctx, "s1", "bogus_state")
	require.NoError(t, err)
	assert.False(t, ok)

	s, _ := store.Get(ctx, "s1")
	assert.Equal(t, session.StateReadyForAction, s.ConversationState)
}

func TestMemoryStoreMarkActionCompleted(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	_, _ = store.GetOrCreate(ctx, "s1")

	ok, err := store.MarkActionCompleted(ctx, "s1", "REF-20260830-0001", "initiate_refund")
	require.NoError(t, err)
	assert.True(t, ok)

	s, _ := store.Get(ctx, "s1")
	assert.Equal(t, session.StateActionExecuted, s.ConversationState)
	assert.Equal(t, "REF-20260830-0001", s.ActionId)
	assert.Equal(t, "initiate_refund", s.ActionType)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	_, _ = store.GetOrCreate(ctx, "s1")

	ok, err := store.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	s, _ := store.Get(ctx, "s1")
	assert.Nil(t, s)

	ok, err = store.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreConcurrentAppend(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	_, _ = store.GetOrCreate(ctx, "s1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AppendHistory(ctx, "s1", "user", "msg")
		}()
	}
	wg.Wait()

	s, _ := store.Get(ctx, "s1")
	require.NotNil(t, s)
	assert.Len(t, s.ConversationHistory, 50)
}

func TestMemoryStoreLockSession(t *testing.T) {
	store := NewMemorySessionStore()

	unlock := store.LockSession("s1")
	done := make(chan struct{})
	go func() {
		u := store.LockSession("s1")
		u()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second lock acquired while first held")
	default:
	}

	unlock()
	<-done
}
