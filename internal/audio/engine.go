package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/floof/internal/log"
)

// MixerEngine decodes clips from a VFS and mixes them into an Output.
// It is safe for concurrent use.
type MixerEngine struct {
	vfs     VFS
	out     Output
	quality int

	cache    *cache.Cache
	cacheTTL time.Duration

	mu     sync.Mutex
	voices map[*voice]struct{}
	closed bool
}

// voice is one clip being played.
type voice struct {
	ctrl    *beep.Ctrl
	path    string
	release func()
}

// New builds an engine that plays through the system speaker.
func New(cfg Config) (*MixerEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out, err := OpenSpeaker(cfg.SampleRate, cfg.BufferSize)
	if err != nil {
		return nil, err
	}
	return NewWithOutput(cfg, out)
}

// NewFactory adapts New to a Factory.
func NewFactory() Factory {
	return func(cfg Config) (Engine, error) {
		e, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// NewWithOutput builds an engine that plays into out.
func NewWithOutput(cfg Config, out Output) (*MixerEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("no output configured")
	}

	e := &MixerEngine{
		vfs:      cfg.VFS,
		out:      out,
		quality:  cfg.ResampleQuality,
		cacheTTL: cfg.DecodeCacheTTL,
		voices:   make(map[*voice]struct{}),
	}
	if cfg.DecodeCacheTTL > 0 {
		e.cache = cache.New(cfg.DecodeCacheTTL, 2*cfg.DecodeCacheTTL)
	}

	log.Debug(log.CatAudio, "Engine initialized",
		"sampleRate", int(out.SampleRate()),
		"resampleQuality", cfg.ResampleQuality,
		"decodeCacheTTL", cfg.DecodeCacheTTL.String(),
	)
	return e, nil
}

// PlaySound opens path through the VFS, decodes it and hands it to the
// output. The file stays open until the voice finishes or the engine closes.
func (e *MixerEngine) PlaySound(path string) error {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrEngineClosed
	}

	streamer, format, release, err := e.load(path)
	if err != nil {
		log.Debug(log.CatAudio, "Failed to load sound", "path", path, "error", err)
		return err
	}

	var s beep.Streamer = streamer
	if format.SampleRate != e.out.SampleRate() {
		s = beep.Resample(e.quality, format.SampleRate, e.out.SampleRate(), s)
	}

	v := &voice{path: path}
	var once sync.Once
	v.release = func() { once.Do(release) }
	v.ctrl = &beep.Ctrl{Streamer: beep.Seq(s, beep.Callback(func() { e.finish(v) }))}

	// Registration and Play must not overlap: the output calls finish with
	// its own lock held, and finish takes e.mu.
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		v.release()
		return ErrEngineClosed
	}
	e.voices[v] = struct{}{}
	e.mu.Unlock()

	e.out.Play(v.ctrl)
	log.Debug(log.CatAudio, "Playing sound", "path", path, "sampleRate", int(format.SampleRate))
	return nil
}

// load returns a streamer for path, either from the decode cache or by
// opening and decoding the file. release frees whatever load acquired.
func (e *MixerEngine) load(path string) (beep.Streamer, beep.Format, func(), error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(path); ok {
			buf := cached.(*beep.Buffer)
			e.cache.Set(path, buf, e.cacheTTL)
			return buf.Streamer(0, buf.Len()), buf.Format(), func() {}, nil
		}
	}

	f, err := e.vfs.Open(path, OpenRead)
	if err != nil {
		return nil, beep.Format{}, nil, fmt.Errorf("opening %q: %w", path, err)
	}

	stream, format, err := Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("loading %q: %w", path, err)
	}

	if e.cache == nil {
		return stream, format, func() {
			if err := stream.Close(); err != nil {
				log.Debug(log.CatAudio, "Failed to close sound", "path", path, "error", err)
			}
		}, nil
	}

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	decodeErr := stream.Err()
	if err := stream.Close(); err != nil {
		log.Debug(log.CatAudio, "Failed to close sound", "path", path, "error", err)
	}
	if decodeErr != nil {
		return nil, beep.Format{}, nil, fmt.Errorf("decoding %q: %w", path, decodeErr)
	}
	e.cache.Set(path, buf, e.cacheTTL)
	return buf.Streamer(0, buf.Len()), format, func() {}, nil
}

// finish runs on the output's goroutine when a voice reaches its end.
func (e *MixerEngine) finish(v *voice) {
	e.mu.Lock()
	delete(e.voices, v)
	e.mu.Unlock()
	v.release()
}

// Active returns the number of voices still playing.
func (e *MixerEngine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.voices)
}

// Close silences every voice started by this engine and releases their
// files. Calling Close more than once is a no-op.
func (e *MixerEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	voices := make([]*voice, 0, len(e.voices))
	for v := range e.voices {
		voices = append(voices, v)
	}
	e.voices = make(map[*voice]struct{})
	e.mu.Unlock()

	e.out.Lock()
	for _, v := range voices {
		v.ctrl.Streamer = nil
	}
	e.out.Unlock()

	for _, v := range voices {
		v.release()
	}
	if e.cache != nil {
		e.cache.Flush()
	}

	log.Debug(log.CatAudio, "Engine closed", "silencedVoices", len(voices))
	return nil
}
