// Package fusefs implements the FUSE filesystem callbacks over the
// virtual directory: getattr, readdir, open, read, write, truncate,
// utimens, chmod, plus the mount/unmount lifecycle hooks that paint
// the splash screen and drive the keypad monitor.
package fusefs

import (
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fuse/nodefs"
	"github.com/hanwen/go-fuse/v2/fuse/pathfs"

	"github.com/pobot/lcdfs/ansi"
	"github.com/pobot/lcdfs/device"
	"github.com/pobot/lcdfs/handler"
	"github.com/pobot/lcdfs/keypad"
	"github.com/pobot/lcdfs/vdir"
)

const (
	backlightDefault  = 1
	brightnessDefault = 255
	contrastDefault   = 255
	ledsDefault       = 0
)

// FS implements pathfs.FileSystem over a [vdir.Directory] built from a
// single [device.Device]'s capability descriptor.
type FS struct {
	pathfs.FileSystem

	dev     device.Device
	engine  *ansi.Engine
	dir     *vdir.Directory
	monitor *keypad.Monitor
	logger  *slog.Logger

	mountTime time.Time
	gid       uint32
	noSplash  bool

	nextHandle uint64

	backlightHandler  handler.Handler
	brightnessHandler handler.Handler
	contrastHandler   handler.Handler
	ledsHandler       handler.Handler
}

// New builds the virtual directory for dev and returns the filesystem
// ready to be mounted. logger receives one line per device error and
// per failed splash or reset step; noSplash suppresses the startup banner.
// gid is reported as the root entry's group; callers resolve it from
// the "lcdfs" group where possible, falling back to the process gid.
func New(dev device.Device, logger *slog.Logger, gid uint32, noSplash bool) *FS {
	var (
		fs   *FS
		caps device.Capabilities
		dir  *vdir.Directory
		now  time.Time
	)

	caps = dev.Capabilities()
	now = time.Now()
	dir = vdir.New()

	fs = &FS{
		FileSystem: pathfs.NewDefaultFileSystem(),
		dev:        dev,
		engine:     ansi.New(dev),
		dir:        dir,
		logger:     logger,
		mountTime:  now,
		gid:        gid,
		noSplash:   noSplash,
	}

	fs.backlightHandler = handler.NewLevel(1, backlightDefault, func(v int64) error {
		return dev.SetBacklight(v != 0)
	})
	dir.AddEntry("backlight", fs.backlightHandler, now)

	if caps.HasBrightness {
		fs.brightnessHandler = handler.NewLevel(255, brightnessDefault, func(v int64) error {
			return dev.SetBrightness(uint8(v))
		})
		dir.AddEntry("brightness", fs.brightnessHandler, now)
	}

	if caps.HasContrast {
		fs.contrastHandler = handler.NewLevel(255, contrastDefault, func(v int64) error {
			return dev.SetContrast(uint8(v))
		})
		dir.AddEntry("contrast", fs.contrastHandler, now)
	}

	if caps.HasLeds {
		fs.ledsHandler = handler.NewLeds(ledsDefault, dev.SetLedsState)
		dir.AddEntry("leds", fs.ledsHandler, now)
	}

	if caps.HasLock {
		dir.AddEntry("locked", handler.NewLocked(dev.IsLocked), now)
	}

	dir.AddEntry("keys", handler.NewKeys(dev.GetKeypadState), now)
	dir.AddEntry("display", handler.NewDisplay(fs.engine), now)
	dir.AddEntry("info", handler.NewInfo(handler.InfoFields{
		Rows:       caps.Rows,
		Cols:       caps.Cols,
		Model:      caps.Model,
		Version:    caps.Version,
		Brightness: caps.HasBrightness,
		Contrast:   caps.HasContrast,
		Locked:     caps.HasLock,
	}), now)

	fs.monitor = keypad.New(dev, logger.With("component", "keypad"))

	return fs
}

// String implements pathfs.FileSystem.
func (fs *FS) String() string {
	return "lcdfs"
}

// GetAttr implements pathfs.FileSystem.
func (fs *FS) GetAttr(name string, context *fuse.Context) (*fuse.Attr, fuse.Status) {
	var (
		entry *vdir.Entry
		ok    bool
		size  uint32
		mode  uint32
		err   error
	)

	if name == "" {
		return &fuse.Attr{
			Mode:  fuse.S_IFDIR | 0755,
			Nlink: 2,
			Owner: fuse.Owner{Uid: uint32(os.Getuid()), Gid: fs.gid},
			Atime: uint64(fs.mountTime.Unix()),
			Mtime: uint64(fs.mountTime.Unix()),
			Ctime: uint64(fs.mountTime.Unix()),
		}, fuse.OK
	}

	entry, ok = fs.dir.Lookup(name)
	if !ok {
		return nil, fuse.ENOENT
	}

	size, err = entry.Handler.Size()
	if err != nil {
		fs.logger.Error("size query failed", "path", name, "err", err)
		return nil, fuse.EIO
	}

	mode = 0o666
	if entry.Handler.IsReadOnly() {
		mode = 0o444
	}

	return &fuse.Attr{
		Mode:   fuse.S_IFREG | mode,
		Nlink:  1,
		Size:   uint64(size),
		Blocks: (uint64(size) + 511) / 512,
		Owner:  fuse.Owner{Uid: uint32(os.Getuid()), Gid: fs.gid},
		Atime:  uint64(entry.Atime().Unix()),
		Mtime:  uint64(entry.Mtime().Unix()),
		Ctime:  uint64(entry.Mtime().Unix()),
	}, fuse.OK
}

// OpenDir implements pathfs.FileSystem.
func (fs *FS) OpenDir(name string, context *fuse.Context) ([]fuse.DirEntry, fuse.Status) {
	var (
		entries []fuse.DirEntry
		n       string
	)

	if name != "" {
		return nil, fuse.ENOENT
	}

	entries = make([]fuse.DirEntry, 0, len(fs.dir.Names()))
	for _, n = range fs.dir.Names() {
		entries = append(entries, fuse.DirEntry{Name: n, Mode: fuse.S_IFREG})
	}

	return entries, fuse.OK
}

// Open implements pathfs.FileSystem. Any open flags are accepted;
// read-only enforcement happens in Write via the handler's read-only
// flag.
func (fs *FS) Open(name string, flags uint32, context *fuse.Context) (nodefs.File, fuse.Status) {
	var (
		entry *vdir.Entry
		ok    bool
	)

	entry, ok = fs.dir.Lookup(name)
	if !ok {
		return nil, fuse.ENOENT
	}

	return newHandleFile(entry, fs.logger, atomic.AddUint64(&fs.nextHandle, 1)), fuse.OK
}

// Truncate implements pathfs.FileSystem. The underlying filesystem has
// no real notion of file length, so this is accepted unconditionally;
// it exists because the default behavior denies every write with
// "read-only filesystem".
func (fs *FS) Truncate(name string, size uint64, context *fuse.Context) fuse.Status {
	return fuse.OK
}

// Chmod implements pathfs.FileSystem as a no-op.
func (fs *FS) Chmod(name string, mode uint32, context *fuse.Context) fuse.Status {
	return fuse.OK
}

// Utimens implements pathfs.FileSystem.
func (fs *FS) Utimens(name string, atime, mtime *time.Time, context *fuse.Context) fuse.Status {
	var (
		entry *vdir.Entry
		ok    bool
		now   time.Time
		a, m  time.Time
	)

	entry, ok = fs.dir.Lookup(name)
	if !ok {
		return fuse.ENOENT
	}

	now = time.Now()

	a, m = now, now
	if atime != nil {
		a = *atime
	}

	if mtime != nil {
		m = *mtime
	}

	entry.SetTimes(a, m)

	return fuse.OK
}

// OnMount implements pathfs.FileSystem. It paints the startup splash
// banner (unless suppressed) and starts the keypad monitor.
func (fs *FS) OnMount(nodeFs *pathfs.PathNodeFs) {
	if !fs.noSplash {
		fs.paintSplash()
	}

	fs.monitor.Start()
}

// OnUnmount implements pathfs.FileSystem. It is idempotent: the
// monitor's Stop tolerates being called after it already stopped.
func (fs *FS) OnUnmount() {
	fs.monitor.Stop(time.Second)
	fs.resetDefaults()
}

func (fs *FS) paintSplash() {
	var (
		hostname string
		addr     string
		err      error
	)

	hostname, err = os.Hostname()
	if err != nil {
		fs.logger.Warn("splash: hostname lookup failed", "err", err)
		hostname = ""
	}

	addr = firstNonLoopbackIPv4()

	err = fs.engine.WriteAt(hostname, 1, 1)
	if err != nil {
		fs.logger.Warn("splash: write failed", "err", err)
		return
	}

	err = fs.engine.WriteAt(addr, 2, 1)
	if err != nil {
		fs.logger.Warn("splash: write failed", "err", err)
	}
}

// resetDefaults restores every RW file to its default value, clears
// the display, and turns the backlight off, per the destroy contract.
func (fs *FS) resetDefaults() {
	var err error

	_, err = fs.backlightHandler.Write([]byte("1"))
	if err != nil {
		fs.logger.Warn("reset: backlight failed", "err", err)
	}

	if fs.brightnessHandler != nil {
		_, err = fs.brightnessHandler.Write([]byte("255"))
		if err != nil {
			fs.logger.Warn("reset: brightness failed", "err", err)
		}
	}

	if fs.contrastHandler != nil {
		_, err = fs.contrastHandler.Write([]byte("255"))
		if err != nil {
			fs.logger.Warn("reset: contrast failed", "err", err)
		}
	}

	if fs.ledsHandler != nil {
		_, err = fs.ledsHandler.Write([]byte("0"))
		if err != nil {
			fs.logger.Warn("reset: leds failed", "err", err)
		}
	}

	_, err = fs.engine.Write([]byte{0x0c})
	if err != nil {
		fs.logger.Warn("reset: clear failed", "err", err)
	}

	err = fs.dev.SetBacklight(false)
	if err != nil {
		fs.logger.Warn("reset: backlight off failed", "err", err)
	}
}
