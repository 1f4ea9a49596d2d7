package persistence

import (
	"context"
	"errors"

	"AuraLink/internal/modules/support/domain/order"
	"AuraLink/internal/modules/support/domain/repository"

	"gorm.io/gorm"
)

// GormOrderRepository 基于 MySQL 的订单查询（主数据源）
type GormOrderRepository struct {
	db *gorm.DB
}

var _ repository.OrderRepository = (*GormOrderRepository)(nil)

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// GetByID 按订单号查询；不存在返回 (nil, nil)
func (r *GormOrderRepository) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
