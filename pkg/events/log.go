package events

import (
	"github.com/ThreeDotsLabs/watermill"

	"github.com/ghuser/workcosts/pkg/logger"
)

// slogAdapter lets Watermill log through logger.Logger. Watermill's trace
// level maps to debug.
type slogAdapter struct{ log logger.Logger }

var _ watermill.LoggerAdapter = (*slogAdapter)(nil)

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(args(fields), "error", err)...)
}

func (a *slogAdapter) Info(msg string, fields watermill.LogFields) { a.log.Info(msg, args(fields)...) }

func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) { a.log.Debug(msg, args(fields)...) }

func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) { a.log.Debug(msg, args(fields)...) }

func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(args(fields)...)}
}

func args(fields watermill.LogFields) []any {
	out := make([]any, 0, 2*len(fields))
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
