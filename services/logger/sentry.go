package logsvc

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

const sentryFlushTimeout = 2 * time.Second

// SentryLogger captures warnings and errors in Sentry, then hands every entry to the next Logger.
type SentryLogger struct {
	next core.Logger
	hub  *sentry.Hub
}

var _ core.Logger = (*SentryLogger)(nil)

func NewSentryLogger(next core.Logger, conf *core.Config) (*SentryLogger, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         conf.SentryDSN,
		Environment: conf.Env,
		Release:     conf.Build,
		ServerName:  conf.Server.Host,
	})
	if err != nil {
		return nil, errors.Wrap(err, "initializing sentry")
	}
	return &SentryLogger{next: next, hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (l *SentryLogger) Close() { l.hub.Flush(sentryFlushTimeout) }

func (l *SentryLogger) capture(level sentry.Level, msg string, args []interface{}) {
	l.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		var cause error
		for _, arg := range args {
			switch v := arg.(type) {
			case error:
				if cause == nil {
					cause = v
				}
			case user.User:
				scope.SetUser(sentry.User{ID: v.ID.Hex(), Email: v.Email, Username: v.Name})
			case map[string]interface{}:
				scope.SetContext("extra", v)
			}
		}
		if cause != nil {
			scope.SetExtra("message", msg)
			l.hub.CaptureException(cause)
			return
		}
		l.hub.CaptureMessage(msg)
	})
}

func (l *SentryLogger) Debug(msg string, args ...interface{}) { l.next.Debug(msg, args...) }
func (l *SentryLogger) Info(msg string, args ...interface{})  { l.next.Info(msg, args...) }

func (l *SentryLogger) Warn(msg string, args ...interface{}) {
	l.capture(sentry.LevelWarning, msg, args)
	l.next.Warn(msg, args...)
}

func (l *SentryLogger) Error(msg string, args ...interface{}) {
	l.capture(sentry.LevelError, msg, args)
	l.next.Error(msg, args...)
}

func (l *SentryLogger) Fatal(msg string, args ...interface{}) {
	l.capture(sentry.LevelFatal, msg, args)
	l.Close()
	l.next.Fatal(msg, args...)
}
