package logsvc

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

// ZapLogger writes structured logs through zap.
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(conf.LogLevel))); err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var cfg zap.Config
	if conf.Env == "PROD" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel), zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return NewZapLoggerFrom(base.With(zap.String("app", conf.AppName))), nil
}

// NewZapLoggerFrom wraps an already built zap.Logger.
func NewZapLoggerFrom(base *zap.Logger) *ZapLogger {
	return &ZapLogger{
		base:  base,
		sugar: base.Sugar(),
	}
}

func (l *ZapLogger) Sync() { _ = l.base.Sync() }

// expected fmt: msg | error, map[string]interface{}, user.User
func fields(args []interface{}) []interface{} {
	kv := make([]interface{}, 0, len(args)*2)
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			kv = append(kv, zap.Error(v))
		case user.User:
			kv = append(kv, zap.String("user", v.Email), zap.String("role", string(v.Role)))
		case map[string]interface{}:
			for key, val := range v {
				kv = append(kv, zap.Any(key, val))
			}
		case nil:
		default:
			kv = append(kv, zap.Any("extra", v))
		}
	}
	return kv
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugw(msg, fields(args)...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.sugar.Infow(msg, fields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnw(msg, fields(args)...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorw(msg, fields(args)...) }
func (l *ZapLogger) Fatal(msg string, args ...interface{}) { l.sugar.Fatalw(msg, fields(args)...) }
