package logger

import (
	"context"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"
)

// Logger 基于 go-zero logx 的日志封装
type Logger struct {
	logger logx.Logger
}

// New 创建 Logger，跳过封装层的调用栈
func New() *Logger {
	return &Logger{logger: logx.WithCallerSkip(2)}
}

// WithContext 携带 ctx 中的链路信息
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{logger: l.logger.WithContext(ctx)}
}

// WithFields 创建带固定字段的 logger
func (l *Logger) WithFields(fields ...logx.LogField) *Logger {
	return &Logger{logger: l.logger.WithFields(fields...)}
}

func (l *Logger) Info(v ...any) { l.logger.Info(v...) }
func (l *Logger) Infof(format string, v ...any) { l.logger.Infof(format, v...) }
func (l *Logger) Infow(msg string, fields ...logx.LogField) { l.logger.Infow(msg, fields...) }

func (l *Logger) Error(v ...any) { l.logger.Error(v...) }
func (l *Logger) Errorf(format string, v ...any) { l.logger.Errorf(format, v...) }
func (l *Logger) Errorw(msg string, fields ...logx.LogField) { l.logger.Errorw(msg, fields...) }

func (l *Logger) Debug(v ...any) { l.logger.Debug(v...) }
func (l *Logger) Debugf(format string, v ...any) { l.logger.Debugf(format, v...) }
func (l *Logger) Debugw(msg string, fields ...logx.LogField) { l.logger.Debugw(msg, fields...) }

// Slowf 记录慢调用（上游响应超过预期时使用）
func (l *Logger) Slowf(format string, v ...any) { l.logger.Slowf(format, v...) }

// Config 日志配置
type Config struct {
	ServiceName string
	Mode        string // console, file, volume
	Level       string // debug, info, error, severe
	Encoding    string // json, plain
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init 使用给定配置初始化全局日志，只生效一次
func Init(conf Config) {
	once.Do(func() {
		if conf.Mode == "" {
			conf.Mode = "console"
		}
		if conf.Level == "" {
			conf.Level = "info"
		}
		if conf.Encoding == "" {
			conf.Encoding = "json"
		}
		logx.MustSetup(logx.LogConf{
			ServiceName: conf.ServiceName,
			Mode:        conf.Mode,
			Level:       conf.Level,
			Encoding:    conf.Encoding,
		})
		defaultLogger = New()
	})
}

// Close 刷新并关闭日志
func Close() {
	logx.Close()
}

// Field 构造结构化字段
func Field(key string, value any) logx.LogField {
	return logx.Field(key, value)
}

// std 未调用 Init 时（如单元测试）回退到 logx 默认输出
func std() *Logger {
	if defaultLogger == nil {
		return New()
	}
	return defaultLogger
}

func Info(v ...any) { std().Info(v...) }
func Infof(format string, v ...any) { std().Infof(format, v...) }
func Infow(msg string, fields ...logx.LogField) { std().Infow(msg, fields...) }

func Error(v ...any) { std().Error(v...) }
func Errorf(format string, v ...any) { std().Errorf(format, v...) }
func Errorw(msg string, fields ...logx.LogField) { std().Errorw(msg, fields...) }

func Debug(v ...any) { std().Debug(v...) }
func Debugf(format string, v ...any) { std().Debugf(format, v...) }
func Debugw(msg string, fields ...logx.LogField) { std().Debugw(msg, fields...) }

func Slowf(format string, v ...any) { std().Slowf(format, v...) }

func WithContext(ctx context.Context) *Logger {
	return std().WithContext(ctx)
}

func WithFields(fields ...logx.LogField) *Logger {
	return std().WithFields(fields...)
}
