package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"AuraLink/internal/config"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/internal/modules/support/domain/session"
	"AuraLink/pkg/redis"
	"AuraLink/pkg/zlog"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "auralink:session:"

// RedisSessionStore 基于 Redis 的会话存储（可选实现，进程重启后会话仍在）
//
// 会话锁仍在进程内，适用于单实例部署；多实例部署需要换分布式锁。
type RedisSessionStore struct {
	ttl time.Duration

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

var _ repository.SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore() *RedisSessionStore {
	ttlHours := config.GetConfig().RedisConfig.SessionTTLHours
	return &RedisSessionStore{
		ttl:   time.Duration(ttlHours) * time.Hour,
		locks: make(map[string]*sync.Mutex),
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *RedisSessionStore) load(ctx context.Context, sessionID string) (*session.Session, error) {
	raw, err := redis.Get(ctx, sessionKey(sessionID))
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s session.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		zlog.Error("corrupt session dropped", zap.String("sessionId", sessionID), zap.Error(err))
		return nil, nil
	}
	return &s, nil
}

func (r *RedisSessionStore) save(ctx context.Context, s *session.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return redis.Set(ctx, sessionKey(s.SessionId), string(raw), r.ttl)
}

// GetOrCreate 取会话，不存在则新建空会话
func (r *RedisSessionStore) GetOrCreate(ctx context.Context, sessionID string) (*session.Session, error) {
	s, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = session.New(sessionID)
		if err := r.save(ctx, s); err != nil {
			return nil, err
		}
		zlog.Info("session created", zap.String("sessionId", sessionID))
	}
	return s, nil
}

// loadOrNew 取会话，不存在则给一个未落库的新会话（由调用方 save）
func (r *RedisSessionStore) loadOrNew(ctx context.Context, sessionID string) (*session.Session, error) {
	s, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = session.New(sessionID)
		zlog.Info("session created", zap.String("sessionId", sessionID))
	}
	return s, nil
}

// Get 取会话，不存在返回 (nil, nil)
func (r *RedisSessionStore) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	return r.load(ctx, sessionID)
}

// Update 写单个槽位，会话不存在则自动新建；未知槽位返回 false
func (r *RedisSessionStore) Update(ctx context.Context, sessionID, key, value string) (bool, error) {
	s, err := r.loadOrNew(ctx, sessionID)
	if err != nil {
		return false, err
	}
	ok := s.SetSlot(key, value)
	if err := r.save(ctx, s); err != nil {
		return false, err
	}
	return ok, nil
}

// BulkUpdate 批量写槽位，会话不存在则自动新建
func (r *RedisSessionStore) BulkUpdate(ctx context.Context, sessionID string, slots map[string]string) (bool, error) {
	s, err := r.loadOrNew(ctx, sessionID)
	if err != nil {
		return false, err
	}
	for k, v := range slots {
		if !s.SetSlot(k, v) {
			zlog.Warn("unknown slot skipped", zap.String("sessionId", sessionID), zap.String("slot", k))
		}
	}
	return true, r.save(ctx, s)
}

// AppendHistory 追加一条对话历史，会话不存在则自动新建
func (r *RedisSessionStore) AppendHistory(ctx context.Context, sessionID, role, message string) error {
	s, err := r.loadOrNew(ctx, sessionID)
	if err != nil {
		return err
	}
	s.ConversationHistory = append(s.ConversationHistory, session.HistoryEntry{
		Role:      role,
		Message:   message,
		Timestamp: time.Now(),
	})
	return r.save(ctx, s)
}

// SetState 迁移会话状态
func (r *RedisSessionStore) SetState(ctx context.Context, sessionID, state string) (bool, error) {
	if !session.IsValidState(state) {
		zlog.Warn("invalid session state rejected", zap.String("sessionId", sessionID), zap.String("state", state))
		return false, nil
	}
	s, err := r.load(ctx, sessionID)
	if err != nil || s == nil {
		return false, err
	}
	s.ConversationState = state
	return true, r.save(ctx, s)
}

// MarkActionCompleted 记录动作执行结果并置状态为 action_executed
func (r *RedisSessionStore) MarkActionCompleted(ctx context.Context, sessionID, actionID, actionType string) (bool, error) {
	s, err := r.load(ctx, sessionID)
	if err != nil || s == nil {
		return false, err
	}
	s.ActionId = actionID
	s.ActionType = actionType
	s.ConversationState = session.StateActionExecuted
	return true, r.save(ctx, s)
}

// ContextSummary 渲染已知信息摘要
func (r *RedisSessionStore) ContextSummary(ctx context.Context, sessionID string) (string, error) {
	s, err := r.load(ctx, sessionID)
	if err != nil || s == nil {
		return "", err
	}
	return s.ContextSummary(), nil
}

// ListSessions 列出全部会话ID
func (r *RedisSessionStore) ListSessions(ctx context.Context) ([]string, error) {
	keys, err := redis.Keys(ctx, sessionKeyPrefix+"*")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, sessionKeyPrefix))
	}
	return ids, nil
}

// Clear 删除会话
func (r *RedisSessionStore) Clear(ctx context.Context, sessionID string) (bool, error) {
	s, err := r.load(ctx, sessionID)
	if err != nil || s == nil {
		return false, err
	}
	_, err = redis.Del(ctx, sessionKey(sessionID))
	return err == nil, err
}

// LockSession 锁定会话（进程内锁）
func (r *RedisSessionStore) LockSession(sessionID string) func() {
	r.lockMu.Lock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sessionID] = l
	}
	r.lockMu.Unlock()

	l.Lock()
	return l.Unlock
}
