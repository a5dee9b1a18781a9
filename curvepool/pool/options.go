package pool

import "github.com/rs/zerolog"

type options struct {
	workers   int
	queueSize int
	log       zerolog.Logger
}

// Option configures a Pool.
type Option func(*options)

// WithWorkers sets the number of worker goroutines. Values <= 0 select
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithQueueSize bounds the number of tasks waiting for a worker. Values <= 0
// select 64 slots per worker.
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

// WithLogger sets the logger used for scheduling events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}
