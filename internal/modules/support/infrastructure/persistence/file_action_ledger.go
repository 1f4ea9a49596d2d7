package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/pkg/zlog"

	"go.uber.org/zap"
)

// FileActionLedger 基于 JSON 数组文件的动作台账
//
// 每类动作一个文件（refunds.json / replacements.json / service_bookings.json）。
// 同类动作串行读写；序号分配同时参考文件记录数与进程内已分配数，
// 保证落账失败后不复用已分配的序号。
type FileActionLedger struct {
	dir string

	mu            sync.Mutex
	typeMu        map[action.Type]*sync.Mutex
	lastAllocated map[string]int // key: "<type>:<yyyymmdd>"
}

var _ repository.ActionLedger = (*FileActionLedger)(nil)

func NewFileActionLedger(dir string) *FileActionLedger {
	return &FileActionLedger{
		dir:           dir,
		typeMu:        make(map[action.Type]*sync.Mutex),
		lastAllocated: make(map[string]int),
	}
}

func (f *FileActionLedger) lockType(t action.Type) func() {
	f.mu.Lock()
	l, ok := f.typeMu[t]
	if !ok {
		l = &sync.Mutex{}
		f.typeMu[t] = l
	}
	f.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (f *FileActionLedger) path(t action.Type) string {
	return filepath.Join(f.dir, action.LedgerName(t)+".json")
}

// readAll 读取台账全量记录；文件缺失或损坏按空台账处理
func (f *FileActionLedger) readAll(t action.Type) []action.Record {
	raw, err := os.ReadFile(f.path(t))
	if err != nil {
		if !os.IsNotExist(err) {
			zlog.Warn("ledger read failed, treated as empty", zap.String("ledger", string(t)), zap.Error(err))
		}
		return nil
	}
	var records []action.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		zlog.Warn("ledger corrupt, treated as empty", zap.String("ledger", string(t)), zap.Error(err))
		return nil
	}
	return records
}

func (f *FileActionLedger) writeAll(t action.Type, records []action.Record) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}

	// 先写临时文件再改名，避免进程中断留下半截文件
	tmp := f.path(t) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(t))
}

// NextID 分配下一个动作ID，格式 {REF|REP|SRV}-{YYYYMMDD}-{0001}
//
// 未知动作类型回落为 ACTION-{YYYYMMDD}-0001。
func (f *FileActionLedger) NextID(ctx context.Context, t action.Type) (string, error) {
	date := action.NowDateStr(time.Now())

	prefix := action.Prefix(t)
	if prefix == "" {
		return fmt.Sprintf("ACTION-%s-0001", date), nil
	}

	unlock := f.lockType(t)
	defer unlock()

	// 序号按当日记录数计，跨日自动归零重排
	seq := 0
	for _, rec := range f.readAll(t) {
		if strings.Contains(rec.Id, date) {
			seq++
		}
	}
	allocKey := string(t) + ":" + date
	if last := f.lastAllocated[allocKey]; last > seq {
		seq = last
	}
	seq++
	f.lastAllocated[allocKey] = seq

	return fmt.Sprintf("%s-%s-%04d", prefix, date, seq), nil
}

// Append 落账一条记录
func (f *FileActionLedger) Append(ctx context.Context, t action.Type, rec *action.Record) error {
	if action.LedgerName(t) == "" {
		return fmt.Errorf("no ledger for action type %q", t)
	}

	unlock := f.lockType(t)
	defer unlock()

	records := append(f.readAll(t), *rec)
	if err := f.writeAll(t, records); err != nil {
		return err
	}
	zlog.Info("action recorded",
		zap.String("actionId", rec.Id),
		zap.String("ledger", action.LedgerName(t)))
	return nil
}

// List 读取某类动作的全部台账记录
func (f *FileActionLedger) List(ctx context.Context, t action.Type) ([]action.Record, error) {
	if action.LedgerName(t) == "" {
		return nil, fmt.Errorf("no ledger for action type %q", t)
	}

	unlock := f.lockType(t)
	defer unlock()

	return f.readAll(t), nil
}
