package calcx

import "log"

// WithLogger logs every press to l. Nil keeps the default, which discards.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSink adds a Sink that receives every Step. May be given more than once.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		e.sinks = append(e.sinks, s)
	}
}

// WithSnapshot starts the engine from s instead of the initial state. The
// input mode follows s.Fresh.
func WithSnapshot(s Snapshot) Option {
	return func(e *Engine) {
		e.snap = s
	}
}
