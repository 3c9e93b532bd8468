// Package audio is the playback engine behind floof. It loads every clip
// through a VFS, decodes it with beep and mixes it into an Output.
package audio

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Engine errors.
var (
	// ErrEngineClosed is returned when playing on an engine after Close.
	ErrEngineClosed = errors.New("audio engine closed")

	// ErrUnsupportedFormat indicates the clip is not a container the engine can decode.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrNoVFS indicates the engine was configured without a VFS.
	ErrNoVFS = errors.New("no VFS configured")
)

// OpenMode is a bit set of requested access.
type OpenMode uint32

// Open modes.
const (
	OpenRead OpenMode = 1 << iota
	OpenWrite
)

// FileInfo describes an open file.
type FileInfo struct {
	Size int64
}

// File is the file-operation contract the engine's resource loader consumes.
// Read follows io.Reader: a short read at end of data returns io.EOF together
// with the bytes copied.
type File interface {
	io.ReadSeekCloser

	// Tell returns the current read position.
	Tell() int64

	// Info returns the total size of the underlying data.
	Info() FileInfo
}

// VFS opens files by path on behalf of the engine.
type VFS interface {
	Open(path string, mode OpenMode) (File, error)
}

// Engine plays clips found through its VFS.
type Engine interface {
	// PlaySound starts playback of the clip at path and returns as soon as it
	// is handed to the mixer. It does not wait for playback to finish.
	PlaySound(path string) error

	// Close stops all playback started by this engine and releases its files.
	Close() error
}

// Factory builds an Engine from a Config.
type Factory func(cfg Config) (Engine, error)

// Config configures an engine.
type Config struct {
	// VFS routes every resource load of the engine.
	VFS VFS

	// SampleRate is the output rate in Hz.
	SampleRate int

	// BufferSize is the output latency; larger values are safer, smaller
	// values respond faster.
	BufferSize time.Duration

	// ResampleQuality is beep's resampling quality, 1 (fast) to 64 (best).
	ResampleQuality int

	// DecodeCacheTTL keeps decoded clips in memory for this long after their
	// last play. Zero disables the cache.
	DecodeCacheTTL time.Duration
}

// Default engine settings.
const (
	DefaultSampleRate      = 44100
	DefaultBufferSize      = 100 * time.Millisecond
	DefaultResampleQuality = 4
)

// DefaultConfig returns a Config with default settings and no VFS.
func DefaultConfig() Config {
	return Config{
		SampleRate:      DefaultSampleRate,
		BufferSize:      DefaultBufferSize,
		ResampleQuality: DefaultResampleQuality,
	}
}

// Validate checks the configuration for values the engine cannot work with.
func (c Config) Validate() error {
	if c.VFS == nil {
		return ErrNoVFS
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be positive, got %s", c.BufferSize)
	}
	if c.ResampleQuality < 1 || c.ResampleQuality > 64 {
		return fmt.Errorf("resample quality must be between 1 and 64, got %d", c.ResampleQuality)
	}
	if c.DecodeCacheTTL < 0 {
		return fmt.Errorf("decode cache TTL must not be negative, got %s", c.DecodeCacheTTL)
	}
	return nil
}
