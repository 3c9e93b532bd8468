package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"testing"

	"github.com/gopxl/beep/v2"
)

// pcmWAV builds a 16-bit PCM WAV file holding samples (interleaved when
// channels > 1).
func pcmWAV(t *testing.T, sampleRate, channels int, samples []int16) []byte {
	t.Helper()
	var buf bytes.Buffer
	dataLen := uint32(len(samples) * 2)

	write := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("writing wav: %v", err)
		}
	}
	buf.WriteString("RIFF")
	write(uint32(36) + dataLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1))
	write(uint16(channels))
	write(uint32(sampleRate))
	write(uint32(sampleRate * channels * 2))
	write(uint16(channels * 2))
	write(uint16(16))
	buf.WriteString("data")
	write(dataLen)
	write(samples)
	return buf.Bytes()
}

// ramp returns n mono samples of a simple sawtooth.
func ramp(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16((i % 200) * 100)
	}
	return out
}

// memVFS serves byte slices and counts open handles.
type memVFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	opens  int
	closes int
}

func newMemVFS(files map[string][]byte) *memVFS {
	return &memVFS{files: files}
}

func (m *memVFS) Open(path string, mode OpenMode) (File, error) {
	if mode&OpenWrite != 0 {
		return nil, fmt.Errorf("read-only")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: not found", path)
	}
	m.opens++
	return &memFile{Reader: bytes.NewReader(data), vfs: m}, nil
}

func (m *memVFS) counts() (opens, closes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens, m.closes
}

type memFile struct {
	*bytes.Reader
	vfs    *memVFS
	closed bool
}

func (f *memFile) Tell() int64 { return f.Size() - int64(f.Len()) }

func (f *memFile) Info() FileInfo { return FileInfo{Size: f.Size()} }

func (f *memFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.vfs.mu.Lock()
	f.vfs.closes++
	f.vfs.mu.Unlock()
	return nil
}

// fakeOutput collects streamers instead of sending them to a device.
type fakeOutput struct {
	rate beep.SampleRate

	speaker sync.Mutex

	mu        sync.Mutex
	streamers []beep.Streamer
}

func newFakeOutput(rate int) *fakeOutput {
	return &fakeOutput{rate: beep.SampleRate(rate)}
}

func (o *fakeOutput) SampleRate() beep.SampleRate { return o.rate }

func (o *fakeOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.streamers = append(o.streamers, s)
}

func (o *fakeOutput) Lock()   { o.speaker.Lock() }
func (o *fakeOutput) Unlock() { o.speaker.Unlock() }

func (o *fakeOutput) pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.streamers)
}

// drain streams every queued streamer to completion the way the speaker
// would, with the output lock held, and returns the frames produced.
func (o *fakeOutput) drain(t *testing.T) int {
	t.Helper()
	o.mu.Lock()
	streamers := o.streamers
	o.streamers = nil
	o.mu.Unlock()

	o.Lock()
	defer o.Unlock()

	total := 0
	buf := make([][2]float64, 512)
	for _, s := range streamers {
		for i := 0; ; i++ {
			if i > 100000 {
				t.Fatalf("streamer never finished")
			}
			n, ok := s.Stream(buf)
			total += n
			if !ok {
				break
			}
		}
	}
	return total
}
