package sound

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ErrDuplicateName is returned by NewTable when two clips share a name.
var ErrDuplicateName = errors.New("duplicate sound name")

// supportedExts lists the clip extensions picked up from the sound directory.
var supportedExts = map[string]bool{
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".mp3":  true,
}

// Record is one embedded clip. Name doubles as the clip's virtual path.
// Data is shared with every reader and must never be modified.
type Record struct {
	Name string
	Data []byte
	Size int64
}

// Table is an ordered, immutable list of clips. The zero value and a nil
// *Table are both valid empty tables.
type Table struct {
	records []Record
}

// NewTable reads every supported clip in dir and returns them ordered by
// file name. Records are named after the file stem, so "meow.wav" becomes
// "meow".
func NewTable(fsys fs.FS, dir string) (*Table, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading sound directory: %w", err)
	}

	seen := make(map[string]string, len(entries))
	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name()))
		if !supportedExts[ext] {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q (%s and %s)", ErrDuplicateName, name, prev, entry.Name())
		}
		seen[name] = entry.Name()

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading sound %s: %w", entry.Name(), err)
		}
		records = append(records, Record{Name: name, Data: data, Size: int64(len(data))})
	}

	return &Table{records: records}, nil
}

// NewTableFromRecords builds a table from records already in memory, in the
// given order. Size is derived from Data.
func NewTableFromRecords(records ...Record) (*Table, error) {
	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, r.Name)
		}
		seen[r.Name] = true
		r.Size = int64(len(r.Data))
		out = append(out, r)
	}
	return &Table{records: out}, nil
}

// Count returns the number of clips.
func (t *Table) Count() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Get returns the clip at index i, or false when i is out of range.
func (t *Table) Get(i int) (Record, bool) {
	if t == nil || i < 0 || i >= len(t.records) {
		return Record{}, false
	}
	return t.records[i], true
}

// Lookup finds a clip by name with a linear scan.
func (t *Table) Lookup(name string) (Record, bool) {
	if t == nil {
		return Record{}, false
	}
	for _, r := range t.records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// Names returns the clip names in table order.
func (t *Table) Names() []string {
	names := make([]string, 0, t.Count())
	for i := range t.Count() {
		names = append(names, t.records[i].Name)
	}
	return names
}
