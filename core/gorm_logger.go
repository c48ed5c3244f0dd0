package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Xushengqwer/actor_hub/config"
)

// GormLogger 把 GORM 的日志输出转接到 ZapLogger
type GormLogger struct {
	zapLogger                 *ZapLogger
	level                     gormlogger.LogLevel
	slowThreshold             time.Duration
	ignoreRecordNotFoundError bool
}

// NewGormLogger 创建 GORM 日志适配器
func NewGormLogger(logger *ZapLogger, cfg config.GormLogConfig) gormlogger.Interface {
	return &GormLogger{
		zapLogger:                 logger,
		level:                     parseGormLevel(cfg.Level),
		slowThreshold:             time.Duration(cfg.SlowThresholdMs) * time.Millisecond,
		ignoreRecordNotFoundError: cfg.IgnoreRecordNotFoundError,
	}
}

func parseGormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Info {
		g.zapLogger.Info(fmt.Sprintf(msg, data...), traceField(ctx))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.zapLogger.Warn(fmt.Sprintf(msg, data...), traceField(ctx))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Error {
		g.zapLogger.Error(fmt.Sprintf(msg, data...), traceField(ctx))
	}
}

// Trace 记录每条 SQL：出错记 Error，超过阈值记 Warn，Info 级别下全部记 Debug
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormlogger.Error && (!errors.Is(err, gorm.ErrRecordNotFound) || !g.ignoreRecordNotFoundError):
		sql, rows := fc()
		g.zapLogger.Error("SQL 执行出错",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
			traceField(ctx),
		)
	case g.slowThreshold != 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.zapLogger.Warn("慢查询",
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", g.slowThreshold),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
			traceField(ctx),
		)
	case g.level == gormlogger.Info:
		sql, rows := fc()
		g.zapLogger.Debug("SQL",
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
			traceField(ctx),
		)
	}
}

func traceField(ctx context.Context) zap.Field {
	if ctx == nil {
		return zap.Skip()
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return zap.Skip()
	}
	return zap.String("trace_id", sc.TraceID().String())
}
