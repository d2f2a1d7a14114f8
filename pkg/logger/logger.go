package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base    = zap.NewNop()
	sugar   = base.Sugar()
	setupMu sync.Mutex
)

// Options 日志配置
type Options struct {
	Dir     string // 日志目录，为空时只输出到控制台
	Level   string // debug, info, warn, error
	Console bool
}

// SetupLogger 初始化日志配置，同时输出到控制台和按日期命名的文件
func SetupLogger(opts ...Options) error {
	opt := Options{Dir: "logs", Level: "info", Console: true}
	if len(opts) > 0 {
		opt = opts[0]
	}

	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(strings.ToLower(opt.Level))); err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if opt.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level))
	}

	if opt.Dir != "" {
		if err := os.MkdirAll(opt.Dir, 0755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}
		logFileName := filepath.Join(opt.Dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
		logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(logFile), level))
	}

	Replace(zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)))
	return nil
}

// Replace 替换全局日志实例，测试中可传入 zap.NewNop()
func Replace(l *zap.Logger) {
	setupMu.Lock()
	defer setupMu.Unlock()
	base = l
	sugar = l.Sugar()
}

// L 返回结构化日志实例
func L() *zap.Logger {
	setupMu.Lock()
	defer setupMu.Unlock()
	return base.WithOptions(zap.AddCallerSkip(-1))
}

// Sync 刷新缓冲
func Sync() {
	_ = L().Sync()
}

// Debug 记录调试级别的日志
func Debug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

// Info 记录信息级别的日志
func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

// Warning 记录警告级别的日志
func Warning(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

// Error 记录错误级别的日志
func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}

func current() *zap.SugaredLogger {
	setupMu.Lock()
	defer setupMu.Unlock()
	return sugar
}
