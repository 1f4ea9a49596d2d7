package zlog

import (
	"os"
	"path/filepath"
	"sync"

	"AuraLink/internal/config"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// initLogger 初始化全局日志（控制台 + lumberjack 滚动文件）
func initLogger() {
	conf := config.GetConfig()
	logPath := conf.LogConfig.LogPath
	if logPath == "" {
		logPath = "logs/auralink.log"
	}
	_ = os.MkdirAll(filepath.Dir(logPath), 0o755)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    100, // MB
		MaxBackups: 7,
		MaxAge:     30, // days
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), zapcore.DebugLevel),
	)

	logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func get() *zap.Logger {
	once.Do(initLogger)
	return logger
}

func Debug(msg string, fields ...zap.Field) {
	get().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	get().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	get().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	get().Error(msg, fields...)
}

// Fatal 记录日志后退出进程
func Fatal(msg string, fields ...zap.Field) {
	get().Fatal(msg, fields...)
}

// Sync 刷新缓冲日志（进程退出前调用）
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
