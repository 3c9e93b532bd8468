// Package floof plays short sound clips that are compiled into the binary.
//
// A typical program initializes a Context once, plays sounds by name or at
// random, and shuts the Context down before exiting:
//
//	ctx, err := floof.Init()
//	if err != nil {
//		return err
//	}
//	defer ctx.Shutdown()
//	_ = ctx.Play("meow")
//
// Play returns as soon as the clip is handed to the mixer. A Context is not
// safe for concurrent use.
package floof

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/floof/internal/audio"
	"github.com/zjrosen/floof/internal/log"
	"github.com/zjrosen/floof/internal/sound"
	"github.com/zjrosen/floof/internal/vfs"
)

// Sentinel errors for the public API.
var (
	// ErrInit is returned when a Context cannot be built.
	ErrInit = errors.New("floof: init failed")

	// ErrPlay is returned when a sound cannot be played.
	ErrPlay = errors.New("floof: play failed")
)

const tracerName = "github.com/zjrosen/floof"

// Context owns one playback engine, the adapter it reads clips through and
// the random generator used by PlayRandom.
type Context struct {
	id     string
	table  *sound.Table
	engine audio.Engine
	rng    *rand.Rand
	tracer trace.Tracer
}

// Init builds a ready Context. On failure it returns nil and an error
// matching ErrInit.
func Init(opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rng, err := newRand(o)
	if err != nil {
		return nil, fmt.Errorf("%w: seeding generator: %w", ErrInit, err)
	}

	cfg := o.engine
	cfg.VFS = vfs.New(o.table)

	engine, err := o.factory(cfg)
	if err != nil {
		log.ErrorErr(log.CatContext, "Engine init failed", err)
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}

	c := &Context{
		id:     uuid.NewString(),
		table:  o.table,
		engine: engine,
		rng:    rng,
		tracer: otel.Tracer(tracerName),
	}
	log.Debug(log.CatContext, "Context ready",
		"id", c.id,
		"sounds", o.table.Count(),
		"sample_rate", cfg.SampleRate)
	return c, nil
}

func newRand(o options) (*rand.Rand, error) {
	if o.seeded {
		return rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15)), nil
	}
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, err
	}
	return rand.New(rand.NewChaCha8(seed)), nil
}

// Shutdown stops playback and releases the engine. It is a no-op on a nil
// Context and on a Context that was already shut down.
func (c *Context) Shutdown() error {
	if c == nil || c.engine == nil {
		return nil
	}
	engine := c.engine
	c.engine = nil
	c.rng = nil

	if err := engine.Close(); err != nil {
		log.ErrorErr(log.CatContext, "Engine close failed", err, "id", c.id)
		return fmt.Errorf("closing engine: %w", err)
	}
	log.Debug(log.CatContext, "Context shut down", "id", c.id)
	return nil
}

// ID returns the identifier assigned to c at Init.
func (c *Context) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// Sounds returns the names c can play, in enumeration order.
func (c *Context) Sounds() []string {
	if c == nil {
		return nil
	}
	return c.table.Names()
}

// Play starts the sound called name.
func (c *Context) Play(name string) error {
	return c.PlayContext(context.Background(), name)
}

// PlayContext is Play with the floof.Play span parented to ctx.
func (c *Context) PlayContext(ctx context.Context, name string) error {
	if c == nil || c.engine == nil {
		return fmt.Errorf("%w: no playback context", ErrPlay)
	}
	if name == "" {
		return fmt.Errorf("%w: empty sound name", ErrPlay)
	}

	_, span := c.tracer.Start(ctx, "floof.Play",
		trace.WithAttributes(
			attribute.String("floof.sound", name),
			attribute.String("floof.context_id", c.id),
		))
	defer span.End()

	if err := c.engine.PlaySound(name); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "play failed")
		log.Warn(log.CatContext, "Play failed", "sound", name, "error", err.Error())
		return fmt.Errorf("%w: %q: %w", ErrPlay, name, err)
	}
	log.Debug(log.CatContext, "Playing", "sound", name, "id", c.id)
	return nil
}

// PlayRandom plays a uniformly chosen sound from the table.
func (c *Context) PlayRandom() error {
	return c.PlayRandomContext(context.Background())
}

// PlayRandomContext is PlayRandom with the span parented to ctx.
func (c *Context) PlayRandomContext(ctx context.Context) error {
	if c == nil || c.engine == nil {
		return fmt.Errorf("%w: no playback context", ErrPlay)
	}
	n := c.table.Count()
	if n == 0 {
		return fmt.Errorf("%w: no sounds embedded", ErrPlay)
	}
	rec, _ := c.table.Get(c.rng.IntN(n))
	return c.PlayContext(ctx, rec.Name)
}

// SoundCount returns the number of embedded sounds.
func SoundCount() int {
	return sound.Default().Count()
}

// SoundName returns the name of the i-th embedded sound. Out-of-range
// indices report false.
func SoundName(i int) (string, bool) {
	rec, ok := sound.Default().Get(i)
	if !ok {
		return "", false
	}
	return rec.Name, true
}
