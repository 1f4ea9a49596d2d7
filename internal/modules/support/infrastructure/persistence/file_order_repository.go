package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"AuraLink/internal/modules/support/domain/order"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/pkg/zlog"

	"go.uber.org/zap"
)

// FileOrderRepository 基于 orders.json 的订单查询（MySQL 未配置时的兜底数据源）
//
// 每次查询重读文件，外部改动立即可见，数据量按演示规模考虑。
type FileOrderRepository struct {
	path string
}

var _ repository.OrderRepository = (*FileOrderRepository)(nil)

func NewFileOrderRepository(dir string) *FileOrderRepository {
	return &FileOrderRepository{path: filepath.Join(dir, "orders.json")}
}

// GetByID 按订单号查询（大小写不敏感）；不存在返回 (nil, nil)
func (f *FileOrderRepository) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var orders []order.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		zlog.Error("orders file corrupt", zap.String("path", f.path), zap.Error(err))
		return nil, err
	}

	for i := range orders {
		if strings.EqualFold(orders[i].OrderId, orderID) {
			return &orders[i], nil
		}
	}
	return nil, nil
}
