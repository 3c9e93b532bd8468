// Package sound holds the sound clips compiled into floof and the read-only
// table that enumerates them.
package sound

import (
	"embed"
	"io/fs"
	"sync"
)

// soundFiles contains the embedded clips. Drop .wav, .flac, .ogg or .mp3
// files into the sounds directory and rebuild to bake them in.
//
//go:embed sounds
var soundFiles embed.FS

// embeddedDir is the directory inside soundFiles that holds the clips.
const embeddedDir = "sounds"

var defaultTable = sync.OnceValue(func() *Table {
	t, err := NewTable(soundFiles, embeddedDir)
	if err != nil {
		panic("sound: invalid embedded sound directory: " + err.Error())
	}
	return t
})

// Default returns the table built from the embedded clips. It is constructed
// once per process and never changes afterwards.
func Default() *Table {
	return defaultTable()
}

// EmbeddedFS returns the raw embedded filesystem. Clip paths are
// "sounds/<name>.<ext>".
func EmbeddedFS() fs.FS {
	return soundFiles
}
