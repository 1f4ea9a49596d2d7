package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := New("session_abc")
	assert.Equal(t, "session_abc", s.SessionId)
	assert.Equal(t, StateCollectingInfo, s.ConversationState)
	assert.Empty(t, s.ConversationHistory)
	assert.Empty(t, s.OrderId)
}

func TestSetSlot(t *testing.T) {
	s := New("s1")

	require.True(t, s.SetSlot("order_id", "ORD301"))
	require.True(t, s.SetSlot("reason_for_action", "screen flickers"))
	assert.Equal(t, "ORD301", s.OrderId)
	assert.Equal(t, "screen flickers", s.ReasonForAction)

	assert.False(t, s.SetSlot("not_a_slot", "x"))
}

func TestClone(t *testing.T) {
	s := New("s1")
	s.OrderId = "ORD301"
	s.ConversationHistory = append(s.ConversationHistory, HistoryEntry{Role: "user", Message: "hi"})

	c := s.Clone()
	c.OrderId = "ORD999"
	c.ConversationHistory[0].Message = "changed"

	assert.Equal(t, "ORD301", s.OrderId)
	assert.Equal(t, "hi", s.ConversationHistory[0].Message)
}

func TestContextSummary(t *testing.T) {
	s := New("s1")
	assert.Empty(t, s.ContextSummary())

	s.OrderId = "ORD301"
	s.CustomerName = "Priya Sharma"
	s.ProductName = "AURA Blender Pro"

	summary := s.ContextSummary()
	assert.Contains(t, summary, "Known Information:")
	assert.Contains(t, summary, "Order ID: ORD301")
	assert.Contains(t, summary, "Customer: Priya Sharma")
	assert.Contains(t, summary, "Product: AURA Blender Pro")
	assert.NotContains(t, summary, "Issue:")
}

func TestIsValidState(t *testing.T) {
	for _, state := range []string{StateCollectingInfo, StateReadyForAction, StateActionExecuted, StateCompleted} {
		assert.True(t, IsValidState(state), state)
	}
	assert.False(t, IsValidState("archived"))
	assert.False(t, IsValidState(""))
}
