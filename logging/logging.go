// Package logging 封装命令行使用的结构化日志。
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 是带键值对接口的 zap 日志器。
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger 创建输出到 stderr 的控制台日志器；verbose 时输出 debug 级别。
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return newLogger(zapcore.Lock(os.Stderr), level)
}

// Nop 返回丢弃所有日志的日志器。
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

func newLogger(out zapcore.WriteSyncer, level zapcore.Level) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), out, level)
	return &Logger{zap.New(core).Sugar()}
}
