package repository

import (
	"context"

	"AuraLink/internal/modules/support/domain/order"
)

// OrderRepository 订单查询接口；订单不存在返回 (nil, nil)
type OrderRepository interface {
	GetByID(ctx context.Context, orderID string) (*order.Order, error)
}
