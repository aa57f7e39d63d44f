// Command lcdfs mounts a character LCD panel as a FUSE filesystem:
// writing to display exposes text on the panel, reading keys reports
// keypad state, and a background monitor republishes keypad transitions
// as Linux input events.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fuse/nodefs"
	"github.com/hanwen/go-fuse/v2/fuse/pathfs"
	"gopkg.in/natefinch/lumberjack.v2"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/pobot/lcdfs/device"
	"github.com/pobot/lcdfs/fusefs"
	"github.com/pobot/lcdfs/xdg"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const defaultMountPoint = "/mnt/lcdfs"

// i2cAddr is the fixed I²C address used by every supported device type.
const i2cAddr = 0x28

func main() {
	var (
		deviceType  string
		noSplash    bool
		verbose     bool
		showVersion bool
		mountPoint  string
		logger      *slog.Logger
		daemonLog   *slog.Logger
		dev         device.Device
		gid         uint32
		err         error
	)

	flag.StringVar(&deviceType, "t", "dummy", "device type: lcd03, lcd05, panel, or dummy")
	flag.StringVar(&deviceType, "device-type", "dummy", "device type: lcd03, lcd05, panel, or dummy")
	flag.BoolVar(&noSplash, "no-splash", false, "suppress the startup banner")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.BoolVar(&showVersion, "V", false, "print version and exit")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("lcdfs", version)
		os.Exit(0)
	}

	mountPoint = defaultMountPoint
	if flag.NArg() > 0 {
		mountPoint = flag.Arg(0)
	}

	logger, err = newLogger(verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lcdfs:", err)
		os.Exit(1)
	}

	daemonLog = logger.With("component", "daemon")

	dev = openDevice(deviceType, logger)
	gid = lcdfsGid(daemonLog)

	err = cleanMountPoint(mountPoint)
	if err != nil {
		daemonLog.Error("mount point not usable", "path", mountPoint, "err", err)
		os.Exit(1)
	}

	err = run(dev, mountPoint, gid, noSplash, logger)
	if err != nil {
		daemonLog.Error("terminated", "err", err)
		os.Exit(1)
	}
}

// lcdfsGid resolves the numeric gid of the "lcdfs" group, falling back
// to the current process gid when the group does not exist or cannot
// be resolved (e.g. running outside of a package-managed install).
func lcdfsGid(logger *slog.Logger) uint32 {
	var (
		group *user.Group
		gid   int
		err   error
	)

	group, err = user.LookupGroup("lcdfs")
	if err != nil {
		logger.Debug("lcdfs group not found, using process gid", "err", err)
		return uint32(os.Getgid())
	}

	gid, err = strconv.Atoi(group.Gid)
	if err != nil {
		logger.Warn("lcdfs group gid not numeric, using process gid", "gid", group.Gid, "err", err)
		return uint32(os.Getgid())
	}

	return uint32(gid)
}

// newLogger builds the slog logger writing to stderr and to a rotating
// log file: /var/log/lcdfs.log when running as root, an XDG state file
// otherwise.
func newLogger(verbose bool) (*slog.Logger, error) {
	var (
		level     slog.Level
		logFile   io.Writer
		statefile *os.File
		err       error
	)

	level = slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	if os.Geteuid() == 0 {
		logFile = &lumberjack.Logger{
			Filename:   "/var/log/lcdfs.log",
			MaxSize:    1,
			MaxBackups: 3,
		}
	} else {
		statefile, err = xdg.StateFile(filepath.Join("lcdfs", "lcdfs.log"))
		if err != nil {
			return nil, fmt.Errorf("main.newLogger: %w", err)
		}

		statefile.Close()

		logFile = &lumberjack.Logger{
			Filename:   statefile.Name(),
			MaxSize:    1,
			MaxBackups: 3,
		}
	}

	return slog.New(slog.NewTextHandler(io.MultiWriter(os.Stderr, logFile), &slog.HandlerOptions{
		Level: level,
	})), nil
}

// openDevice builds the real or dummy device for deviceType, falling
// back to the in-memory dummy when the I²C bus cannot be acquired.
func openDevice(deviceType string, logger *slog.Logger) device.Device {
	var (
		bus  i2c.BusCloser
		c    conn.Conn
		err  error
		comp *slog.Logger
	)

	comp = logger.With("component", "device")

	if deviceType == "dummy" {
		return device.NewDummy()
	}

	_, err = host.Init()
	if err != nil {
		comp.Warn("host init failed, falling back to dummy device", "err", err)
		return device.NewDummy()
	}

	bus, err = i2creg.Open("")
	if err != nil {
		comp.Warn("i2c bus open failed, falling back to dummy device", "err", err)
		return device.NewDummy()
	}

	c = &i2c.Dev{Addr: i2cAddr, Bus: bus}

	switch deviceType {
	case "lcd03":
		return device.NewPanel(c, device.LCD03, 2, 16, 1)
	case "lcd05":
		return device.NewPanel(c, device.LCD05, 4, 20, 1)
	case "panel":
		return device.NewPanel(c, device.Panel, 4, 20, 1)
	default:
		comp.Warn("unknown device type, falling back to dummy device", "type", deviceType)
		return device.NewDummy()
	}
}

// cleanMountPoint removes every entry under mountPoint, leaving the
// directory itself untouched.
func cleanMountPoint(mountPoint string) error {
	var (
		entries []os.DirEntry
		entry   os.DirEntry
		info    os.FileInfo
		err     error
	)

	info, err = os.Stat(mountPoint)
	if err != nil {
		return fmt.Errorf("main.cleanMountPoint: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("main.cleanMountPoint: %s is not a directory", mountPoint)
	}

	entries, err = os.ReadDir(mountPoint)
	if err != nil {
		return fmt.Errorf("main.cleanMountPoint: %w", err)
	}

	for _, entry = range entries {
		err = os.RemoveAll(filepath.Join(mountPoint, entry.Name()))
		if err != nil {
			return fmt.Errorf("main.cleanMountPoint: %w", err)
		}
	}

	return nil
}

// run mounts the filesystem, serves it until a termination signal
// arrives or the server stops on its own, and unmounts cleanly.
func run(dev device.Device, mountPoint string, gid uint32, noSplash bool, logger *slog.Logger) error {
	var (
		fs        *fusefs.FS
		nodeFs    *pathfs.PathNodeFs
		fsConn    *nodefs.FileSystemConnector
		server    *fuse.Server
		sigCh     chan os.Signal
		mountOp   fuse.MountOptions
		daemonLog *slog.Logger
		err       error
	)

	daemonLog = logger.With("component", "daemon")
	fs = fusefs.New(dev, logger.With("component", "fusefs"), gid, noSplash)

	nodeFs = pathfs.NewPathNodeFs(fs, nil)
	fsConn = nodefs.NewFileSystemConnector(nodeFs.Root(), nodefs.NewOptions())

	mountOp = fuse.MountOptions{
		AllowOther:     true,
		SingleThreaded: true,
		Name:           "lcdfs",
		FsName:         "lcdfs",
		Options:        []string{"direct_io"},
	}

	server, err = fuse.NewServer(fsConn.RawFS(), mountPoint, &mountOp)
	if err != nil {
		return fmt.Errorf("main.run: %w", err)
	}

	sigCh = make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		daemonLog.Info("signal received, unmounting")
		server.Unmount()
	}()

	server.Serve()

	err = cleanMountPoint(mountPoint)
	if err != nil {
		daemonLog.Warn("post-unmount cleanup failed", "err", err)
	}

	return nil
}
