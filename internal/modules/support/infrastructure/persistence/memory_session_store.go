package persistence

import (
	"context"
	"sync"
	"time"

	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/internal/modules/support/domain/session"
	"AuraLink/pkg/zlog"

	"go.uber.org/zap"
)

// MemorySessionStore 进程内会话存储（默认实现，重启即失忆）
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

var _ repository.SessionStore = (*MemorySessionStore)(nil)

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*session.Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// getOrCreateLocked 取或新建会话；调用方需持有写锁
func (m *MemorySessionStore) getOrCreateLocked(sessionID string) *session.Session {
	s, ok := m.sessions[sessionID]
	if !ok {
		s = session.New(sessionID)
		m.sessions[sessionID] = s
		zlog.Info("session created", zap.String("sessionId", sessionID))
	}
	return s
}

// GetOrCreate 取会话，不存在则新建空会话
func (m *MemorySessionStore) GetOrCreate(ctx context.Context, sessionID string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(sessionID).Clone(), nil
}

// Get 取会话，不存在返回 (nil, nil)
func (m *MemorySessionStore) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

// Update 写单个槽位，会话不存在则自动新建；未知槽位返回 false
func (m *MemorySessionStore) Update(ctx context.Context, sessionID, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(sessionID).SetSlot(key, value), nil
}

// BulkUpdate 批量写槽位，会话不存在则自动新建；未知槽位跳过不报错
func (m *MemorySessionStore) BulkUpdate(ctx context.Context, sessionID string, slots map[string]string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getOrCreateLocked(sessionID)
	for k, v := range slots {
		if !s.SetSlot(k, v) {
			zlog.Warn("unknown slot skipped", zap.String("sessionId", sessionID), zap.String("slot", k))
		}
	}
	return true, nil
}

// AppendHistory 追加一条对话历史，会话不存在则自动新建
func (m *MemorySessionStore) AppendHistory(ctx context.Context, sessionID, role, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getOrCreateLocked(sessionID)
	s.ConversationHistory = append(s.ConversationHistory, session.HistoryEntry{
		Role:      role,
		Message:   message,
		Timestamp: time.Now(),
	})
	return nil
}

// SetState 迁移会话状态；非法状态拒绝写入并返回 false
func (m *MemorySessionStore) SetState(ctx context.Context, sessionID, state string) (bool, error) {
	if !session.IsValidState(state) {
		zlog.Warn("invalid session state rejected", zap.String("sessionId", sessionID), zap.String("state", state))
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return false, nil
	}
	s.ConversationState = state
	return true, nil
}

// MarkActionCompleted 记录动作执行结果并置状态为 action_executed
func (m *MemorySessionStore) MarkActionCompleted(ctx context.Context, sessionID, actionID, actionType string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return false, nil
	}
	s.ActionId = actionID
	s.ActionType = actionType
	s.ConversationState = session.StateActionExecuted
	return true, nil
}

// ContextSummary 渲染已知信息摘要；会话不存在返回空串
func (m *MemorySessionStore) ContextSummary(ctx context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return "", nil
	}
	return s.ContextSummary(), nil
}

// ListSessions 列出全部会话ID
func (m *MemorySessionStore) ListSessions(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Clear 删除会话；不存在返回 false
func (m *MemorySessionStore) Clear(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return false, nil
	}
	delete(m.sessions, sessionID)
	return true, nil
}

// LockSession 锁定会话，保证同一会话同一时刻只处理一条消息
func (m *MemorySessionStore) LockSession(sessionID string) func() {
	m.lockMu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionID] = l
	}
	m.lockMu.Unlock()

	l.Lock()
	return l.Unlock
}
