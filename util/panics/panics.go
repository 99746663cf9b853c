package panics

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/kaspanet/ledgerd/infrastructure/logger"
)

const exitHandlerTimeout = 5 * time.Second

// HandlePanic recovers panics, logs them together with the stack trace of the
// goroutine that spawned the panicking one, and exits the process.
func HandlePanic(log *logger.Logger, spawnStackTrace []byte) {
	err := recover()
	if err == nil {
		return
	}

	reason := fmt.Sprintf("Fatal error: %+v", err)
	exit(log, reason, debug.Stack(), spawnStackTrace)
}

// GoroutineWrapperFunc returns a goroutine wrapper function that handles panics and writes them to the log.
func GoroutineWrapperFunc(log *logger.Logger) func(func()) {
	return func(f func()) {
		stackTrace := debug.Stack()
		go func() {
			defer HandlePanic(log, stackTrace)
			f()
		}()
	}
}

// Exit prints the given reason to log and initiates a clean shutdown.
func Exit(log *logger.Logger, reason string) {
	exit(log, reason, nil, nil)
}

// exit writes the reason and whichever stack traces are present, waits for the
// log backend to flush, and exits with status 1. When the backend isn't
// running the reason goes to stderr instead.
func exit(log *logger.Logger, reason string, currentThreadStackTrace []byte, spawnStackTrace []byte) {
	if !log.Backend().IsRunning() {
		fmt.Fprintf(os.Stderr, "Exiting: %s\n", reason)
		if currentThreadStackTrace != nil {
			fmt.Fprintf(os.Stderr, "Stack trace: %s\n", currentThreadStackTrace)
		}
		os.Exit(1)
	}

	exitHandlerDone := make(chan struct{})
	go func() {
		log.Criticalf("Exiting: %s", reason)
		if spawnStackTrace != nil {
			log.Criticalf("Spawning goroutine stack trace: %s", spawnStackTrace)
		}
		if currentThreadStackTrace != nil {
			log.Criticalf("Stack trace: %s", currentThreadStackTrace)
		}
		log.Backend().Close()
		close(exitHandlerDone)
	}()

	select {
	case <-time.After(exitHandlerTimeout):
		fmt.Fprintln(os.Stderr, "Couldn't exit gracefully.")
	case <-exitHandlerDone:
	}
	os.Exit(1)
}
