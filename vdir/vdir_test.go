package vdir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pobot/lcdfs/handler"
)

func TestDirectoryNamesPreserveAddOrder(t *testing.T) {
	d := New()
	now := time.Now()

	d.AddEntry("backlight", handler.NewLevel(1, 1, func(int64) error { return nil }), now)
	d.AddEntry("keys", handler.NewKeys(func() (uint32, error) { return 0, nil }), now)
	d.AddEntry("display", handler.NewDisplay(nopWriter{}), now)
	d.AddEntry("info", handler.NewInfo(handler.InfoFields{}), now)

	assert.Equal(t, []string{"backlight", "keys", "display", "info"}, d.Names())
}

func TestDirectoryLookupTrimsLeadingSlash(t *testing.T) {
	d := New()
	now := time.Now()

	d.AddEntry("keys", handler.NewKeys(func() (uint32, error) { return 0, nil }), now)

	entry, ok := d.Lookup("/keys")
	require.True(t, ok)
	assert.Equal(t, "keys", entry.Name)

	entry, ok = d.Lookup("keys")
	require.True(t, ok)
	assert.Equal(t, "keys", entry.Name)

	_, ok = d.Lookup("missing")
	assert.False(t, ok)
}

func TestEntryTimestampsUpdateIndependently(t *testing.T) {
	mountTime := time.Now().Add(-time.Hour)

	d := New()
	d.AddEntry("keys", handler.NewKeys(func() (uint32, error) { return 0, nil }), mountTime)

	entry, ok := d.Lookup("keys")
	require.True(t, ok)
	assert.True(t, entry.Atime().Equal(mountTime))
	assert.True(t, entry.Mtime().Equal(mountTime))

	now := time.Now()
	entry.Touch(now)
	assert.True(t, entry.Atime().Equal(now))
	assert.True(t, entry.Mtime().Equal(mountTime))

	entry.Modify(now)
	assert.True(t, entry.Mtime().Equal(now))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
