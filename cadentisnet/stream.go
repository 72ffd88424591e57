//go:build linux || darwin

package cadentisnet

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/cadentis/cadentis"
	"github.com/cadentis/cadentis/internal/task"
)

// TCPStream is a non-blocking, reactor-registered TCP connection, grounded
// on original cadentis/src/net/tcp/stream.rs. Unlike the original, which
// buffers reads/writes through an intermediate Stream struct filled by the
// reactor's dispatch loop, this rendition reads and writes directly against
// the caller-supplied buffer through task.StreamHandle.TryRead/TryWrite,
// matching the teacher-grounded internal/reactor registry's "re-arm on
// EAGAIN" contract instead of adding a second buffering layer on top of it.
type TCPStream struct {
	fd     int
	handle task.StreamHandle
	local  net.Addr
	remote net.Addr
}

func newTCPStream(fd int, reactor task.ReactorHandle) (*TCPStream, error) {
	handle, err := reactor.RegisterStream(fd)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	local, _ := localAddr(fd)
	remote, _ := remoteAddr(fd)
	return &TCPStream{fd: fd, handle: handle, local: local, remote: remote}, nil
}

// Dial connects to address and returns a future resolving to the connected
// TCPStream. Grounded on original TcpStream::connect.
func Dial(rt *cadentis.Runtime, address string) cadentis.Future[cadentis.Result[*TCPStream]] {
	return &dialFuture{reactor: rt.Reactor(), address: address}
}

type dialFuture struct {
	reactor    task.ReactorHandle
	address    string
	fd         int
	registered bool
}

func (f *dialFuture) Poll(w *task.Waker) task.Poll[cadentis.Result[*TCPStream]] {
	if !f.registered {
		tcpAddr, err := net.ResolveTCPAddr("tcp", f.address)
		if err != nil {
			return task.Ready(cadentis.Result[*TCPStream]{Err: err})
		}
		domain := unix.AF_INET
		if tcpAddr.IP.To4() == nil {
			domain = unix.AF_INET6
		}
		fd, err := unix.Socket(domain, unix.SOCK_STREAM, 0)
		if err != nil {
			return task.Ready(cadentis.Result[*TCPStream]{Err: err})
		}
		if err := unix.SetNonblock(fd, true); err != nil {
			_ = unix.Close(fd)
			return task.Ready(cadentis.Result[*TCPStream]{Err: err})
		}
		sa, err := sockaddrFromTCP(tcpAddr)
		if err != nil {
			_ = unix.Close(fd)
			return task.Ready(cadentis.Result[*TCPStream]{Err: err})
		}
		f.fd = fd
		err = unix.Connect(fd, sa)
		if err == nil {
			return f.finish()
		}
		if err != unix.EINPROGRESS {
			_ = unix.Close(fd)
			return task.Ready(cadentis.Result[*TCPStream]{Err: err})
		}
		if _, rerr := f.reactor.RegisterOneShot(fd, task.Interest{Write: true}, w.Clone()); rerr != nil {
			_ = unix.Close(fd)
			return task.Ready(cadentis.Result[*TCPStream]{Err: rerr})
		}
		f.registered = true
		return task.Pending[cadentis.Result[*TCPStream]]()
	}
	return f.finish()
}

func (f *dialFuture) finish() task.Poll[cadentis.Result[*TCPStream]] {
	errno, err := unix.GetsockoptInt(f.fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		_ = unix.Close(f.fd)
		return task.Ready(cadentis.Result[*TCPStream]{Err: err})
	}
	if errno != 0 {
		_ = unix.Close(f.fd)
		return task.Ready(cadentis.Result[*TCPStream]{Err: unix.Errno(errno)})
	}
	stream, serr := newTCPStream(f.fd, f.reactor)
	if serr != nil {
		return task.Ready(cadentis.Result[*TCPStream]{Err: serr})
	}
	return task.Ready(cadentis.Result[*TCPStream]{Value: stream})
}

// LocalAddr returns the stream's local address.
func (s *TCPStream) LocalAddr() net.Addr { return s.local }

// RemoteAddr returns the stream's peer address.
func (s *TCPStream) RemoteAddr() net.Addr { return s.remote }

// Read returns a future resolving to the number of bytes read into buf, or
// an error (including a nil error with n == 0 on EOF, matching io.Reader
// convention rather than the original's io::Result<usize>/EOF-as-Ok(0)
// split).
func (s *TCPStream) Read(buf []byte) cadentis.Future[cadentis.Result[int]] {
	return &streamIOFuture{handle: s.handle, buf: buf, write: false}
}

// maxOutboundBuffer is the 8 MiB cap on a single Write call, resolving
// spec.md §9 Open Question 2: a caller asking to write more than this in
// one call almost certainly meant to chunk it themselves.
const maxOutboundBuffer = 8 << 20

// Write returns a future resolving to the number of bytes written from buf.
// It resolves immediately with cadentis.ErrOutboundBufferFull if buf exceeds
// the 8 MiB single-call cap.
func (s *TCPStream) Write(buf []byte) cadentis.Future[cadentis.Result[int]] {
	if len(buf) > maxOutboundBuffer {
		return task.FutureFunc[cadentis.Result[int]](func(*task.Waker) task.Poll[cadentis.Result[int]] {
			return task.Ready(cadentis.Result[int]{Err: cadentis.ErrOutboundBufferFull})
		})
	}
	return &streamIOFuture{handle: s.handle, buf: buf, write: true}
}

// Close releases the stream's reactor registration and file descriptor.
func (s *TCPStream) Close() error {
	return s.handle.Close()
}

type streamIOFuture struct {
	handle task.StreamHandle
	buf    []byte
	write  bool
}

func (f *streamIOFuture) Poll(w *task.Waker) task.Poll[cadentis.Result[int]] {
	var (
		n   int
		ok  bool
		err error
	)
	if f.write {
		n, ok, err = f.handle.TryWrite(f.buf, w.Clone())
	} else {
		n, ok, err = f.handle.TryRead(f.buf, w.Clone())
	}
	if err != nil {
		return task.Ready(cadentis.Result[int]{Err: err})
	}
	if !ok {
		return task.Pending[cadentis.Result[int]]()
	}
	return task.Ready(cadentis.Result[int]{Value: n})
}
