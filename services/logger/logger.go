package logsvc

import (
	"github.com/the-user01/Study-Platform-Server/core"
)

// New builds the application Logger: zap, decorated by the error reporters that are configured.
// The returned func flushes every layer and must be called before exit.
func New(conf *core.Config) (core.Logger, func(), error) {
	zl, err := NewZapLogger(conf)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){zl.Sync}

	var logger core.Logger = zl
	if conf.SentryDSN != "" {
		sl, err := NewSentryLogger(logger, conf)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, sl.Close)
		logger = sl
	}
	if conf.RollbarToken != "" {
		rl := NewRollbarLogger(logger, conf)
		rl.Enable(!conf.Debug)
		closers = append(closers, rl.Close)
		logger = rl
	}

	return logger, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}
