package vfs

import (
	"io"

	"github.com/zjrosen/floof/internal/audio"
	"github.com/zjrosen/floof/internal/log"
)

// File is a read cursor over one clip's bytes. The bytes are borrowed from
// the sound table and never copied or modified. A File must not be used from
// more than one goroutine at a time.
type File struct {
	name   string
	data   []byte
	size   int64
	cursor int64
	closed bool
}

// Read copies up to len(p) bytes from the cursor. When fewer bytes remain
// than requested, it returns what is left together with io.EOF; at the end
// of data it returns 0, io.EOF.
func (f *File) Read(p []byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}

	remaining := f.size - f.cursor
	if remaining == 0 {
		return 0, io.EOF
	}

	n := copy(p, f.data[f.cursor:f.size])
	f.cursor += int64(n)
	if int64(len(p)) > remaining {
		return n, io.EOF
	}
	return n, nil
}

// Seek moves the cursor. The target must lie within [0, size]; seeking to
// size is valid and leaves the file at end of data. On error the cursor does
// not move.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, ErrClosed
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = f.cursor + offset
	case io.SeekEnd:
		target = f.size + offset
	default:
		return f.cursor, ErrInvalidArgument
	}

	if target < 0 || target > f.size {
		return f.cursor, ErrBadSeek
	}
	f.cursor = target
	return target, nil
}

// Tell returns the cursor.
func (f *File) Tell() int64 {
	return f.cursor
}

// Info reports the clip size.
func (f *File) Info() audio.FileInfo {
	return audio.FileInfo{Size: f.size}
}

// Name returns the clip name the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Close releases the handle. It always succeeds, including on an already
// closed file.
func (f *File) Close() error {
	if !f.closed {
		log.Debug(log.CatVFS, "Closed embedded sound", "path", f.name, "cursor", f.cursor)
	}
	f.closed = true
	f.data = nil
	return nil
}
