package repository

import (
	"context"

	"AuraLink/internal/modules/support/domain/session"
)

// SessionStore 会话存储接口
//
// 实现必须保证并发安全；所有读取方法返回副本，调用方修改副本后经
// Update/BulkUpdate 写回。写入方法（Update/BulkUpdate/AppendHistory）
// 对不存在的会话自动新建；布尔返回值表示写入是否生效（槽位名或
// 状态是否合法），不作为错误上抛。
type SessionStore interface {
	// GetOrCreate 取会话，不存在则新建空会话
	GetOrCreate(ctx context.Context, sessionID string) (*session.Session, error)
	// Get 取会话，不存在返回 (nil, nil)
	Get(ctx context.Context, sessionID string) (*session.Session, error)
	// Update 写单个槽位，会话不存在则自动新建；未知槽位返回 false
	Update(ctx context.Context, sessionID, key, value string) (bool, error)
	// BulkUpdate 批量写槽位（订单回查刷新用），会话不存在则自动新建
	BulkUpdate(ctx context.Context, sessionID string, slots map[string]string) (bool, error)
	// AppendHistory 追加一条对话历史，会话不存在则自动新建
	AppendHistory(ctx context.Context, sessionID, role, message string) error
	// SetState 迁移会话状态；非法状态或会话不存在返回 false
	SetState(ctx context.Context, sessionID, state string) (bool, error)
	// MarkActionCompleted 记录动作执行结果并将状态置为 action_executed
	MarkActionCompleted(ctx context.Context, sessionID, actionID, actionType string) (bool, error)
	// ContextSummary 渲染已知信息摘要；会话不存在返回空串
	ContextSummary(ctx context.Context, sessionID string) (string, error)
	// ListSessions 列出全部会话ID（管理端用）
	ListSessions(ctx context.Context) ([]string, error)
	// Clear 删除会话；不存在返回 false
	Clear(ctx context.Context, sessionID string) (bool, error)
	// LockSession 锁定会话，同一会话同一时刻只处理一条消息；返回解锁函数
	LockSession(sessionID string) func()
}
