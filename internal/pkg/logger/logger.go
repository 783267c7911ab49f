package logger

import (
	"context"
	"fmt"

	"github.com/tgaplan/estimator/internal/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.SugaredLogger

func init() {
	Init(false)
}

// Init builds the global logger. Call once from main; the init default keeps
// tests working without explicit setup.
func Init(debug bool) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %s", err))
	}

	global = l.Sugar()
}

// with attaches request-scoped fields carried in the context.
func with(ctx context.Context) *zap.SugaredLogger {
	l := global
	if runID, ok := ctx.Value(constants.CtxKeyRunID).(string); ok && runID != "" {
		l = l.With("run_id", runID)
	}
	return l
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	with(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	with(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	with(ctx).Warnf(format, args...)
}

func Error(ctx context.Context, msg string) {
	with(ctx).Error(msg)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	with(ctx).Errorf(format, args...)
}

func Fatal(ctx context.Context, err error) {
	if err == nil {
		return
	}
	with(ctx).Fatal(err.Error())
}
