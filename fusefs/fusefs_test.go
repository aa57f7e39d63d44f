package fusefs

import (
	"io"
	"log/slog"
	"testing"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pobot/lcdfs/device"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewDummyDirectoryListing(t *testing.T) {
	fs := New(device.NewDummy(), testLogger(), 0, true)

	entries, status := fs.OpenDir("", nil)
	require.Equal(t, fuse.OK, status)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}

	assert.Equal(t, []string{"backlight", "keys", "display", "info"}, names)
}

func TestGetAttrRoot(t *testing.T) {
	fs := New(device.NewDummy(), testLogger(), 0, true)

	attr, status := fs.GetAttr("", nil)
	require.Equal(t, fuse.OK, status)
	assert.Equal(t, uint32(fuse.S_IFDIR|0755), attr.Mode)
}

func TestGetAttrUnknownEntry(t *testing.T) {
	fs := New(device.NewDummy(), testLogger(), 0, true)

	_, status := fs.GetAttr("nope", nil)
	assert.Equal(t, fuse.ENOENT, status)
}

func TestGetAttrKnownEntryModeReadOnly(t *testing.T) {
	fs := New(device.NewDummy(), testLogger(), 0, true)

	attr, status := fs.GetAttr("info", nil)
	require.Equal(t, fuse.OK, status)
	assert.Equal(t, uint32(fuse.S_IFREG|0o444), attr.Mode)
}

func TestOpenUnknownEntryReturnsENOENT(t *testing.T) {
	fs := New(device.NewDummy(), testLogger(), 0, true)

	_, status := fs.Open("nope", 0, nil)
	assert.Equal(t, fuse.ENOENT, status)
}

func TestWriteToReadOnlyEntryReturnsEACCES(t *testing.T) {
	fs := New(device.NewDummy(), testLogger(), 0, true)

	file, status := fs.Open("keys", 0, nil)
	require.Equal(t, fuse.OK, status)

	_, status = file.Write([]byte("1"), 0)
	assert.Equal(t, fuse.EACCES, status)
}

func TestReadBacklightDefault(t *testing.T) {
	fs := New(device.NewDummy(), testLogger(), 0, true)

	file, status := fs.Open("backlight", 0, nil)
	require.Equal(t, fuse.OK, status)

	dest := make([]byte, 16)
	result, status := file.Read(dest, 0)
	require.Equal(t, fuse.OK, status)

	buf := make([]byte, 16)
	out, readStatus := result.Bytes(buf)
	require.Equal(t, fuse.OK, readStatus)
	assert.Equal(t, "1\n", string(out))
}
