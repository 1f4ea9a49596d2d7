package order

import "fmt"

// Order 订单记录（兜底数据源为 orders.json，主数据源为 MySQL）
type Order struct {
	OrderId       string `gorm:"column:order_id;primaryKey;type:varchar(32)" json:"order_id"`
	CustomerName  string `gorm:"column:customer_name;type:varchar(128)" json:"customer_name"`
	CustomerEmail string `gorm:"column:customer_email;type:varchar(128)" json:"customer_email"`
	CustomerPhone string `gorm:"column:customer_phone;type:varchar(32)" json:"customer_phone"`
	ProductId     string `gorm:"column:product_id;type:varchar(32)" json:"product_id"`
	ProductName   string `gorm:"column:product_name;type:varchar(128)" json:"product_name"`
	ModelNumber   string `gorm:"column:model_number;type:varchar(64)" json:"model_number"`
	SerialNumber  string `gorm:"column:serial_number;type:varchar(64)" json:"serial_number"`
	PurchaseDate  string `gorm:"column:purchase_date;type:varchar(32)" json:"purchase_date"`
	WarrantyYears string `gorm:"column:warranty_years;type:varchar(8)" json:"warranty_years"`
}

func (Order) TableName() string {
	return "orders"
}

// Summary 订单的用户可读摘要
func (o *Order) Summary() string {
	if o == nil {
		return ""
	}
	return fmt.Sprintf(
		"Order %s: %s (Model: %s), purchased on %s by %s.",
		o.OrderId, o.ProductName, o.ModelNumber, o.PurchaseDate, o.CustomerName,
	)
}
