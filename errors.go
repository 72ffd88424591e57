package cadentis

import "errors"

// Sentinel errors returned by the runtime facade, following the teacher
// eventloop package's errors.go style of plain errors.New values rather than
// custom structured error types for conditions that don't need one.
var (
	// ErrRuntimeShutdown is the panic value raised by Spawn (and therefore
	// BlockOn, which calls it) when invoked after Runtime.Shutdown has
	// already been called: a task pushed onto a closed injector would
	// never run, so the call is rejected outright rather than handing
	// back a JoinHandle that can never resolve.
	ErrRuntimeShutdown = errors.New("cadentis: runtime is shut down")

	// ErrJoinHandleUsed is not returned by any operation in this module: a
	// JoinHandle's Join and Poll may be called repeatedly, and every call
	// after the task finishes yields the same Result.
	ErrJoinHandleUsed = errors.New("cadentis: join handle already consumed")

	// ErrTaskCancelled is not carried by any Result in this module: an
	// aborted task's Result.Err is a *task.JoinError with Cancelled set.
	ErrTaskCancelled = errors.New("cadentis: task was cancelled")

	// ErrPollerFatal is not returned by any code path in this module: the
	// reactor loop ignores errors from its platform poller and keeps running.
	ErrPollerFatal = errors.New("cadentis: reactor poller failed fatally")

	// ErrWorkerCountInvalid is returned by Builder.Build when WorkerThreads
	// was configured with a non-positive count.
	ErrWorkerCountInvalid = errors.New("cadentis: worker thread count must be positive")

	// ErrNestedBlockOn is returned (as a panic value) by BlockOn when called
	// from a goroutine that is already inside an outer BlockOn call,
	// resolving spec.md §9 Open Question 1 against nested blocking.
	ErrNestedBlockOn = errors.New("cadentis: nested BlockOn is not supported")

	// ErrOutboundBufferFull is surfaced by stream writers (cadentisnet,
	// cadentisfs) when a caller's outbound buffer exceeds the 8 MiB cap
	// from spec.md §9 Open Question 2.
	ErrOutboundBufferFull = errors.New("cadentis: outbound buffer exceeds capacity")
)
