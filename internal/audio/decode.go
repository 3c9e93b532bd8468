package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Container identifies a clip's file format.
type Container string

// Recognized containers.
const (
	ContainerWAV    Container = "wav"
	ContainerFLAC   Container = "flac"
	ContainerVorbis Container = "vorbis"
	ContainerMP3    Container = "mp3"
)

// sniffLen is the number of leading bytes needed to recognize a container.
const sniffLen = 12

// Sniff recognizes a container from the first bytes of a clip.
func Sniff(header []byte) (Container, bool) {
	switch {
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return ContainerWAV, true
	case bytes.HasPrefix(header, []byte("fLaC")):
		return ContainerFLAC, true
	case bytes.HasPrefix(header, []byte("OggS")):
		return ContainerVorbis, true
	case bytes.HasPrefix(header, []byte("ID3")):
		return ContainerMP3, true
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// MPEG audio frame sync without an ID3 tag.
		return ContainerMP3, true
	}
	return "", false
}

// Decode sniffs f and decodes it with the matching beep decoder. On success
// the returned streamer owns f and closes it; on failure f is left open for
// the caller to close.
func Decode(f File) (beep.StreamSeekCloser, beep.Format, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, beep.Format{}, fmt.Errorf("reading header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, beep.Format{}, fmt.Errorf("rewinding after header: %w", err)
	}

	container, ok := Sniff(header[:n])
	if !ok {
		return nil, beep.Format{}, ErrUnsupportedFormat
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch container {
	case ContainerWAV:
		stream, format, err = wav.Decode(f)
	case ContainerFLAC:
		stream, format, err = flac.Decode(f)
	case ContainerVorbis:
		stream, format, err = vorbis.Decode(f)
	case ContainerMP3:
		stream, format, err = mp3.Decode(f)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decoding %s: %w", container, err)
	}
	return stream, format, nil
}
