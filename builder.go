package cadentis

import (
	"io"
	"runtime"

	"github.com/cadentis/cadentis/internal/logging"
)

// runtimeOptions holds the accumulated configuration for a Runtime,
// following the same shape as the teacher's loopOptions struct: a private
// struct mutated in place by Builder's chainable setters, validated once at
// construction time.
type runtimeOptions struct {
	workerThreads int
	logWriter     io.Writer
	logLevel      logging.Level
}

// Builder assembles a Runtime. Unlike the teacher's single-call
// NewLoop(options...) constructor, Cadentis uses a chainable Builder so
// WorkerThreads/Logger read naturally at call sites that configure several
// knobs (spec.md §6).
type Builder struct {
	opts runtimeOptions
}

// NewBuilder returns a Builder defaulting to runtime.NumCPU() worker
// threads (minimum 1) and a stderr JSON logger at info level.
func NewBuilder() *Builder {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return &Builder{opts: runtimeOptions{
		workerThreads: n,
		logLevel:      logging.LevelInfo,
	}}
}

// WorkerThreads sets the fixed number of OS-thread-pinned workers the
// Runtime will start. A non-positive n is rejected at Build time with
// ErrWorkerCountInvalid, rather than panicking here, following Go's
// convention of reporting construction errors through a return value
// (spec.md §6 Open Question resolution).
func (b *Builder) WorkerThreads(n int) *Builder {
	b.opts.workerThreads = n
	return b
}

// Logger configures the structured logger the runtime facade writes its
// startup and shutdown diagnostics to. w is typically os.Stderr or a test buffer; a nil w leaves
// the default (stderr) in place.
func (b *Builder) Logger(w io.Writer, level logging.Level) *Builder {
	b.opts.logWriter = w
	b.opts.logLevel = level
	return b
}

// Build validates the accumulated options and starts a Runtime: its
// reactor goroutine and its fixed pool of worker goroutines.
func (b *Builder) Build() (*Runtime, error) {
	if b.opts.workerThreads <= 0 {
		return nil, ErrWorkerCountInvalid
	}
	return newRuntime(b.opts)
}
