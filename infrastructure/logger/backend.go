package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const normalLogSize = 512

// Rotation settings for log files: roll at 100MB, keep the last 8 rolls
const (
	rotateThresholdKB = 100 * 1000
	rotateMaxRolls    = 8
)

// Callsite flags, read from the comma separated LOGFLAGS environment
// variable. shortfile takes precedence over longfile.
const (
	LogFlagLongFile uint32 = 1 << iota
	LogFlagShortFile
)

func flagsFromEnvironment() uint32 {
	var flags uint32
	for _, flag := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch strings.TrimSpace(flag) {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return flags
}

type logEntry struct {
	log   []byte
	level Level
}

type leveledWriter struct {
	io.WriteCloser
	minLevel Level
}

// Backend owns the outputs every subsystem logger writes to. Entries from
// all loggers funnel through one channel and are written by a single
// goroutine, so lines never interleave. Outputs can only be added before Run.
type Backend struct {
	flag      uint32
	isRunning uint32
	writers   []leveledWriter
	writeChan chan logEntry

	// held by the writer goroutine until writeChan is drained
	done sync.Mutex
}

// NewBackend returns a stopped backend with no outputs
func NewBackend() *Backend {
	return &Backend{flag: flagsFromEnvironment(), writeChan: make(chan logEntry)}
}

// AddLogWriter sends every entry at or above logLevel to writer
func (b *Backend) AddLogWriter(writer io.WriteCloser, logLevel Level) error {
	if b.IsRunning() {
		return errors.New("cannot add a log writer to a running backend")
	}
	b.writers = append(b.writers, leveledWriter{WriteCloser: writer, minLevel: logLevel})
	return nil
}

// AddLogFile sends every entry at or above logLevel to a rotated file at
// logFile, creating its directory if needed
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	if b.IsRunning() {
		return errors.New("cannot add a log file to a running backend")
	}
	if logDir := filepath.Dir(logFile); logDir != "." {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	fileRotator, err := rotator.New(logFile, rotateThresholdKB, false, rotateMaxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create a rotator for %s", logFile)
	}
	return b.AddLogWriter(fileRotator, logLevel)
}

// Run starts the writer goroutine. It may be called once.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("the log backend is already running")
	}
	b.done.Lock()
	go func() {
		defer b.done.Unlock()
		defer func() {
			if err := recover(); err != nil {
				fmt.Fprintf(os.Stderr, "Fatal error in the log backend: %+v\n%s\n", err, debug.Stack())
			}
		}()
		for entry := range b.writeChan {
			for _, writer := range b.writers {
				if entry.level >= writer.minLevel {
					_, _ = writer.Write(entry.log)
				}
			}
		}
	}()
	return nil
}

// IsRunning returns whether Run was called and Close wasn't
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) == 1
}

// Close waits for pending entries to be written, then closes every output
func (b *Backend) Close() {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 1, 0) {
		return
	}
	close(b.writeChan)
	b.done.Lock()
	defer b.done.Unlock()
	for _, writer := range b.writers {
		_ = writer.Close()
	}
}

// Logger returns a logger tagged with subsystemTag, at info level
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{lvl: uint32(LevelInfo), tag: subsystemTag, b: b, writeChan: b.writeChan}
}
