// Package vfs serves the embedded sound table to the audio engine as a
// read-only filesystem. Each clip name is a path; opening it yields an
// independent seekable handle over the clip's bytes.
package vfs

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/zjrosen/floof/internal/audio"
	"github.com/zjrosen/floof/internal/log"
	"github.com/zjrosen/floof/internal/sound"
)

// Adapter errors. Each wraps the matching io/fs sentinel.
var (
	// ErrAccessDenied is returned when a write mode is requested.
	ErrAccessDenied = fmt.Errorf("embedded sounds are read-only: %w", fs.ErrPermission)

	// ErrNotFound is returned when no clip has the requested name.
	ErrNotFound = fmt.Errorf("sound not found: %w", fs.ErrNotExist)

	// ErrBadSeek is returned when a seek would land outside [0, size].
	ErrBadSeek = fmt.Errorf("seek out of range: %w", fs.ErrInvalid)

	// ErrInvalidArgument is returned for an unknown seek origin.
	ErrInvalidArgument = fmt.Errorf("invalid seek origin: %w", fs.ErrInvalid)

	// ErrClosed is returned when a handle is used after Close.
	ErrClosed = fs.ErrClosed
)

// FS opens clips from a sound table.
type FS struct {
	table *sound.Table
}

// New returns an adapter over table. A nil table is an empty one.
func New(table *sound.Table) *FS {
	return &FS{table: table}
}

// Open returns a fresh handle for the clip named path. Write access is
// always denied.
func (v *FS) Open(path string, mode audio.OpenMode) (audio.File, error) {
	f, err := v.OpenFile(path, mode)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenFile is Open returning the concrete handle type.
func (v *FS) OpenFile(path string, mode audio.OpenMode) (*File, error) {
	if mode&audio.OpenWrite != 0 {
		log.Debug(log.CatVFS, "Rejected write open", "path", path, "mode", uint32(mode))
		return nil, &fs.PathError{Op: "open", Path: path, Err: ErrAccessDenied}
	}

	rec, ok := v.table.Lookup(path)
	if !ok {
		log.Debug(log.CatVFS, "No embedded sound for path", "path", path)
		return nil, &fs.PathError{Op: "open", Path: path, Err: ErrNotFound}
	}

	log.Debug(log.CatVFS, "Opened embedded sound", "path", path, "size", rec.Size)
	return &File{name: rec.Name, data: rec.Data, size: rec.Size}, nil
}

// IsNotFound reports whether err means the requested clip does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
