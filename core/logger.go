package core

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Xushengqwer/actor_hub/config"
)

// ZapLogger 对 zap.Logger 的轻量封装，统一项目内的日志调用方式。
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger 根据配置创建日志记录器。
// - encoding 为 console 时输出彩色文本，其余情况输出 JSON。
// - output_path 非空时额外写入按大小切割的日志文件。
func NewZapLogger(cfg config.ZapConfig) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("无效的日志级别 '%s': %w", cfg.Level, err)
		}
		level = parsed
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if cfg.OutputPath != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.OutputPath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}))
	}

	zapCore := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), level)
	logger := zap.New(zapCore,
		zap.AddCaller(),
		zap.AddCallerSkip(1), // 跳过 ZapLogger 自身这一层
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return &ZapLogger{logger: logger}, nil
}

// NewZapLoggerFrom 包装一个已存在的 *zap.Logger，测试中常配合 zap.NewNop 使用。
func NewZapLoggerFrom(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l}
}

// Logger 返回底层的 *zap.Logger
func (l *ZapLogger) Logger() *zap.Logger {
	return l.logger
}

func (l *ZapLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

func (l *ZapLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

func (l *ZapLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

func (l *ZapLogger) Error(msg string, fields ...zap.Field) {
	l.logger.Error(msg, fields...)
}

func (l *ZapLogger) Fatal(msg string, fields ...zap.Field) {
	l.logger.Fatal(msg, fields...)
}
