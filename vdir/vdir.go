// Package vdir holds the virtual directory: the fixed set of file
// entries chosen at mount time from the device's capability
// descriptor, each paired with its handler and access/modification
// timestamps.
package vdir

import (
	"strings"
	"sync"
	"time"

	"github.com/pobot/lcdfs/handler"
)

// Entry is a named file node: a handler plus the timestamps FUSE
// reports through getattr.
type Entry struct {
	Name    string
	Handler handler.Handler

	mu    sync.Mutex
	atime time.Time
	mtime time.Time
}

// Atime returns the entry's last-access time.
func (e *Entry) Atime() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.atime
}

// Mtime returns the entry's last-modification time.
func (e *Entry) Mtime() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.mtime
}

// Touch sets atime to now.
func (e *Entry) Touch(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.atime = now
}

// Modify sets mtime to now.
func (e *Entry) Modify(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mtime = now
}

// SetTimes sets both timestamps directly, for utimens.
func (e *Entry) SetTimes(atime, mtime time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.atime = atime
	e.mtime = mtime
}

// Directory is the ordered, immutable-after-construction set of file
// entries exposed at the mount point.
type Directory struct {
	order   []string
	entries map[string]*Entry
}

// New returns an empty Directory. Entries are added with AddEntry and
// are listed in the order they were added.
func New() *Directory {
	return &Directory{entries: make(map[string]*Entry)}
}

// AddEntry creates and registers an entry named name backed by h, with
// both timestamps set to mountTime. Entries must be added in the
// desired readdir order; the set is considered final once the mount
// begins serving requests.
func (d *Directory) AddEntry(name string, h handler.Handler, mountTime time.Time) {
	var entry *Entry

	entry = &Entry{Name: name, Handler: h, atime: mountTime, mtime: mountTime}

	d.order = append(d.order, name)
	d.entries[name] = entry
}

// Names returns the entry names in their fixed listing order.
func (d *Directory) Names() []string {
	return d.order
}

// Lookup normalizes path's leading slash and returns its entry, or
// (nil, false) if no such entry exists.
func (d *Directory) Lookup(path string) (*Entry, bool) {
	var (
		entry *Entry
		ok    bool
	)

	path = strings.TrimPrefix(path, "/")

	entry, ok = d.entries[path]

	return entry, ok
}
