package floof

import (
	"time"

	"github.com/zjrosen/floof/internal/audio"
	"github.com/zjrosen/floof/internal/sound"
)

// Option configures Init.
type Option func(*options)

type options struct {
	engine  audio.Config
	table   *sound.Table
	factory audio.Factory
	seed    uint64
	seeded  bool
}

func defaultOptions() options {
	return options{
		engine:  audio.DefaultConfig(),
		table:   sound.Default(),
		factory: audio.NewFactory(),
	}
}

// WithSampleRate sets the output rate in Hz. Clips recorded at another rate
// are resampled.
func WithSampleRate(hz int) Option {
	return func(o *options) {
		o.engine.SampleRate = hz
	}
}

// WithBufferSize sets the output latency.
func WithBufferSize(d time.Duration) Option {
	return func(o *options) {
		o.engine.BufferSize = d
	}
}

// WithResampleQuality sets the resampling quality, 1 (fast) to 64 (best).
func WithResampleQuality(q int) Option {
	return func(o *options) {
		o.engine.ResampleQuality = q
	}
}

// WithDecodeCache keeps decoded clips in memory for ttl after their last
// play. Zero disables the cache.
func WithDecodeCache(ttl time.Duration) Option {
	return func(o *options) {
		o.engine.DecodeCacheTTL = ttl
	}
}

// WithSeed makes PlayRandom deterministic.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

func withTable(t *sound.Table) Option {
	return func(o *options) {
		o.table = t
	}
}

func withEngineFactory(f audio.Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}
