package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"AuraLink/internal/config"
	"AuraLink/internal/modules/support/domain/order"
	"AuraLink/pkg/zlog"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

func init() {
	conf := config.GetConfig()
	host := conf.MysqlConfig.Host

	// 未配置 MySQL 时跳过，订单查询回落到本地 orders.json
	if host == "" {
		zlog.Info("MySQL 未配置，订单查询使用本地数据文件")
		return
	}

	dbName := conf.MysqlConfig.DatabaseName
	if dbName == "" {
		dbName = conf.AppName
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User, conf.MysqlConfig.Password, host, conf.MysqlConfig.Port, dbName)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		zlog.Fatal(err.Error())
	}

	// 自动迁移，如果没有建表，会自动创建对应的表
	if err = GormDB.AutoMigrate(&order.Order{}); err != nil {
		zlog.Fatal(err.Error())
	}
}
