package fusefs

import (
	"errors"
	"log/slog"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fuse/nodefs"

	"github.com/pobot/lcdfs/handler"
	"github.com/pobot/lcdfs/vdir"
)

// handleFile is the nodefs.File returned by FS.Open. Beyond the entry
// it was opened against, it carries only a logger and its open-handle
// id, and no value state of its own: reads and
// writes always operate on the handler's current value, per the
// overwrite-from-start contract (offsets are honored for reads, and
// ignored for writes).
type handleFile struct {
	nodefs.File

	entry  *vdir.Entry
	logger *slog.Logger
	handle uint64
}

func newHandleFile(entry *vdir.Entry, logger *slog.Logger, handle uint64) nodefs.File {
	return &handleFile{File: nodefs.NewDefaultFile(), entry: entry, logger: logger, handle: handle}
}

// Handle returns the monotonically increasing identifier assigned to
// this file at Open time, surfaced in logging to tell overlapping opens
// of the same entry apart.
func (f *handleFile) Handle() uint64 {
	return f.handle
}

// Read implements nodefs.File.
func (f *handleFile) Read(dest []byte, off int64) (fuse.ReadResult, fuse.Status) {
	var (
		payload []byte
		end     int64
		err     error
	)

	payload, err = f.entry.Handler.Read()
	if err != nil {
		f.logger.Error("read failed", "path", f.entry.Name, "handle", f.handle, "err", err)
		return nil, fuse.EIO
	}

	f.entry.Touch(time.Now())

	if off >= int64(len(payload)) {
		return fuse.ReadResultData(nil), fuse.OK
	}

	end = off + int64(len(dest))
	if end > int64(len(payload)) {
		end = int64(len(payload))
	}

	return fuse.ReadResultData(payload[off:end]), fuse.OK
}

// Write implements nodefs.File. The offset is ignored: every write is
// treated as an overwrite from the start of the handler's value.
func (f *handleFile) Write(data []byte, off int64) (uint32, fuse.Status) {
	var (
		n   uint32
		err error
	)

	if f.entry.Handler.IsReadOnly() {
		return 0, fuse.EACCES
	}

	n, err = f.entry.Handler.Write(data)
	if err != nil {
		if errors.Is(err, handler.ErrReadOnly) {
			return 0, fuse.EACCES
		}

		f.logger.Error("write failed", "path", f.entry.Name, "handle", f.handle, "err", err)

		return 0, fuse.EIO
	}

	f.entry.Modify(time.Now())

	return n, fuse.OK
}
