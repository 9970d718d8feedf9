package corelog

import "go.uber.org/zap"

// ZapSink adapts a zap.SugaredLogger to the Sink interface. Wired by
// cmd/invar; core packages never import zap directly.
type ZapSink struct {
	l *zap.SugaredLogger
}

// NewZapSink wraps an already-constructed zap logger.
func NewZapSink(l *zap.SugaredLogger) *ZapSink {
	return &ZapSink{l: l}
}

func (z *ZapSink) Event(level Level, msg string, fields ...Field) {
	if z == nil || z.l == nil {
		return
	}
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	switch level {
	case Debug:
		z.l.Debugw(msg, args...)
	case Warn:
		z.l.Warnw(msg, args...)
	case Error:
		z.l.Errorw(msg, args...)
	default:
		z.l.Infow(msg, args...)
	}
}
