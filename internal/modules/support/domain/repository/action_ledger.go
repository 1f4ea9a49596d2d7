package repository

import (
	"context"

	"AuraLink/internal/modules/support/domain/action"
)

// ActionLedger 动作台账接口
//
// NextID 与 Append 之间允许并发分配，实现必须保证同一天内同类动作的
// 序号严格递增且不重复（即使期间有失败的 Append）。
type ActionLedger interface {
	// NextID 分配下一个动作ID，格式 {REF|REP|SRV}-{YYYYMMDD}-{0001}
	NextID(ctx context.Context, t action.Type) (string, error)
	// Append 落账一条记录
	Append(ctx context.Context, t action.Type, rec *action.Record) error
	// List 读取某类动作的全部台账记录（管理端用）
	List(ctx context.Context, t action.Type) ([]action.Record, error)
}
