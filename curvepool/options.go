package curvepool

import (
	"github.com/rs/zerolog"

	"github.com/TheusHen/curvepool/curvepool/config"
	"github.com/TheusHen/curvepool/curvepool/primitive"
)

type options struct {
	prim      primitive.Primitive
	workers   int
	queueSize int
	log       zerolog.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithPrimitive replaces the default Curve25519 backend.
func WithPrimitive(p primitive.Primitive) Option {
	return func(o *options) { o.prim = p }
}

// WithWorkers sets the worker count; 0 means runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithQueueSize bounds the pool queue; 0 means 64 per worker.
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// FromConfig applies the pool section of cfg.
func FromConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.workers = cfg.Pool.Workers
		o.queueSize = cfg.Pool.QueueSize
	}
}
