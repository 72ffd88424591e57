//go:build linux || darwin

// Package cadentisfs provides a minimal asynchronous file handle, the Go
// rendition of the original cadentis/src/fs/file.rs. Directory walking and
// path manipulation are out of scope, matching spec.md's explicit
// Non-goal for filesystem traversal.
package cadentisfs

import (
	"golang.org/x/sys/unix"

	"github.com/cadentis/cadentis"
	"github.com/cadentis/cadentis/internal/task"
)

// File is an open file descriptor exposing ReadAt/WriteAt as Futures.
//
// Unlike cadentisnet's sockets, regular files are always "ready" from a
// poller's point of view (epoll/kqueue readiness on a plain file is not a
// meaningful backpressure signal the way it is for a socket), so File does
// not register with the reactor at all: pread/pwrite on a regular file
// descriptor already returns immediately without blocking the calling
// thread for any length of time a scheduler needs to care about. This is a
// deliberate simplification of original cadentis/src/fs/file.rs, which
// does register with the reactor purely for symmetry with its socket
// futures; the Go rendition only pays for registration where it changes
// behavior.
type File struct {
	fd int
}

// Open opens path for reading.
func Open(path string) (*File, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &File{fd: fd}, nil
}

// Create opens path for writing, truncating it if it already exists.
func Create(path string) (*File, error) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC|unix.O_CLOEXEC, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{fd: fd}, nil
}

// ReadAt returns a future resolving to the number of bytes read into buf
// starting at offset.
func (f *File) ReadAt(buf []byte, offset int64) cadentis.Future[cadentis.Result[int]] {
	return task.FutureFunc[cadentis.Result[int]](func(*task.Waker) task.Poll[cadentis.Result[int]] {
		n, err := unix.Pread(f.fd, buf, offset)
		return task.Ready(cadentis.Result[int]{Value: n, Err: err})
	})
}

// maxOutboundBuffer is the 8 MiB cap on a single WriteAt call, matching
// cadentisnet's stream write cap (spec.md §9 Open Question 2).
const maxOutboundBuffer = 8 << 20

// WriteAt returns a future resolving to the number of bytes written from
// buf starting at offset. It resolves immediately with
// cadentis.ErrOutboundBufferFull if buf exceeds the 8 MiB single-call cap.
func (f *File) WriteAt(buf []byte, offset int64) cadentis.Future[cadentis.Result[int]] {
	if len(buf) > maxOutboundBuffer {
		return task.FutureFunc[cadentis.Result[int]](func(*task.Waker) task.Poll[cadentis.Result[int]] {
			return task.Ready(cadentis.Result[int]{Err: cadentis.ErrOutboundBufferFull})
		})
	}
	return task.FutureFunc[cadentis.Result[int]](func(*task.Waker) task.Poll[cadentis.Result[int]] {
		n, err := unix.Pwrite(f.fd, buf, offset)
		return task.Ready(cadentis.Result[int]{Value: n, Err: err})
	})
}

// Close closes the underlying file descriptor.
func (f *File) Close() error {
	return unix.Close(f.fd)
}
