package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"AuraLink/internal/modules/support/domain/action"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var actionIDPattern = regexp.MustCompile(`^(REF|REP|SRV)-\d{8}-\d{4}$`)

func TestLedgerNextIDFormat(t *testing.T) {
	ledger := NewFileActionLedger(t.TempDir())
	ctx := context.Background()

	id, err := ledger.NextID(ctx, action.InitiateRefund)
	require.NoError(t, err)
	assert.Regexp(t, actionIDPattern, id)
	assert.Equal(t, fmt.Sprintf("REF-%s-0001", action.NowDateStr(time.Now())), id)

	id, err = ledger.NextID(ctx, action.InitiateReplacement)
	require.NoError(t, err)
	assert.Contains(t, id, "REP-")

	id, err = ledger.NextID(ctx, action.BookService)
	require.NoError(t, err)
	assert.Contains(t, id, "SRV-")
}

func TestLedgerNextIDUnknownType(t *testing.T) {
	ledger := NewFileActionLedger(t.TempDir())

	id, err := ledger.NextID(context.Background(), action.Type("mystery"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ACTION-%s-0001", action.NowDateStr(time.Now())), id)
}

func TestLedgerSequentialIDs(t *testing.T) {
	ledger := NewFileActionLedger(t.TempDir())
	ctx := context.Background()
	date := action.NowDateStr(time.Now())

	for i := 1; i <= 3; i++ {
		id, err := ledger.NextID(ctx, action.InitiateRefund)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("REF-%s-%04d", date, i), id)
		require.NoError(t, ledger.Append(ctx, action.InitiateRefund, &action.Record{
			Id:     id,
			Type:   action.InitiateRefund,
			Date:   time.Now().Format("2006-01-02 15:04:05"),
			Status: action.StatusProcessing,
		}))
	}

	records, err := ledger.List(ctx, action.InitiateRefund)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, fmt.Sprintf("REF-%s-0001", date), records[0].Id)
	assert.Equal(t, fmt.Sprintf("REF-%s-0003", date), records[2].Id)
}

func TestLedgerNoIDReuseAfterFailedAppend(t *testing.T) {
	// 分配了ID但未落账，下一次分配仍要递进
	ledger := NewFileActionLedger(t.TempDir())
	ctx := context.Background()
	date := action.NowDateStr(time.Now())

	first, err := ledger.NextID(ctx, action.BookService)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("SRV-%s-0001", date), first)

	second, err := ledger.NextID(ctx, action.BookService)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("SRV-%s-0002", date), second)
}

func TestLedgerTypesIsolated(t *testing.T) {
	ledger := NewFileActionLedger(t.TempDir())
	ctx := context.Background()
	date := action.NowDateStr(time.Now())

	refID, _ := ledger.NextID(ctx, action.InitiateRefund)
	require.NoError(t, ledger.Append(ctx, action.InitiateRefund, &action.Record{Id: refID, Type: action.InitiateRefund}))

	repID, err := ledger.NextID(ctx, action.InitiateReplacement)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("REP-%s-0001", date), repID)
}

func TestLedgerCorruptFileTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "refunds.json"), []byte("{not json"), 0o644))

	ledger := NewFileActionLedger(dir)
	ctx := context.Background()

	id, err := ledger.NextID(ctx, action.InitiateRefund)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("REF-%s-0001", action.NowDateStr(time.Now())), id)

	records, err := ledger.List(ctx, action.InitiateRefund)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLedgerAppendUnknownType(t *testing.T) {
	ledger := NewFileActionLedger(t.TempDir())

	err := ledger.Append(context.Background(), action.Type("mystery"), &action.Record{Id: "x"})
	assert.Error(t, err)

	_, err = ledger.List(context.Background(), action.Type("mystery"))
	assert.Error(t, err)
}

func TestLedgerAppendPersistsFields(t *testing.T) {
	ledger := NewFileActionLedger(t.TempDir())
	ctx := context.Background()

	id, _ := ledger.NextID(ctx, action.BookService)
	require.NoError(t, ledger.Append(ctx, action.BookService, &action.Record{
		Id:            id,
		Type:          action.BookService,
		ProductName:   "AURA Blender Pro",
		UserEmail:     "priya@example.com",
		UserName:      "Priya Sharma",
		OrderId:       "ORD301",
		ServiceCenter: "Nearest Center",
		ScheduledDate: "TBD",
		TimeSlot:      "TBD",
		Status:        action.StatusProcessing,
	}))

	records, err := ledger.List(ctx, action.BookService)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ORD301", records[0].OrderId)
	assert.Equal(t, "Nearest Center", records[0].ServiceCenter)
	assert.Equal(t, action.StatusProcessing, records[0].Status)
}
