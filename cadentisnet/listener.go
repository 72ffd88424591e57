//go:build linux || darwin

// Package cadentisnet provides non-blocking TCP networking integrated with
// a Runtime's reactor, the Go rendition of the original
// cadentis/src/net/tcp module. It is unix-only: on Windows the reactor's
// stream handles perform no I/O, because internal/reactor/fd_windows.go's
// read and write helpers are stubs.
package cadentisnet

import (
	"net"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/cadentis/cadentis"
	"github.com/cadentis/cadentis/internal/task"
)

// TCPListener is a non-blocking listening socket registered with a
// Runtime's reactor, grounded on original
// cadentis/src/net/tcp/listener.rs.
type TCPListener struct {
	fd   int
	addr net.Addr

	reactor task.ReactorHandle

	mu     sync.Mutex
	closed bool
}

// Listen binds and listens on address (e.g. "127.0.0.1:0"), returning a
// TCPListener registered with rt's reactor.
func Listen(rt *cadentis.Runtime, address string) (*TCPListener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", address)
	if err != nil {
		return nil, err
	}

	domain := unix.AF_INET
	if tcpAddr.IP.To4() == nil {
		domain = unix.AF_INET6
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)

	sa, err := sockaddrFromTCP(tcpAddr)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	if err := unix.Listen(fd, 128); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	addr, err := localAddr(fd)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	return &TCPListener{fd: fd, addr: addr, reactor: rt.Reactor()}, nil
}

// Addr returns the address the listener is bound to.
func (l *TCPListener) Addr() net.Addr {
	return l.addr
}

// Accept returns a future resolving to the next inbound connection.
// Grounded on original cadentis/src/net/tcp/listener.rs's accept, which
// awaits an AcceptFuture over the raw listening fd.
func (l *TCPListener) Accept() cadentis.Future[cadentis.Result[*TCPStream]] {
	return &acceptFuture{listener: l}
}

// Close stops the listener and releases its file descriptor.
func (l *TCPListener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()
	return unix.Close(l.fd)
}

// acceptFuture holds no registration state across Poll calls: a one-shot
// registration tears itself down the moment it fires (internal/reactor's
// registry.registerOneShot), so by the time Poll runs again after a wake,
// any prior registration is already gone and a fresh one is always what's
// needed on the next EAGAIN.
type acceptFuture struct {
	listener *TCPListener
}

func (f *acceptFuture) Poll(w *task.Waker) task.Poll[cadentis.Result[*TCPStream]] {
	l := f.listener
	for {
		connFd, _, err := unix.Accept4(l.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		if err == nil {
			stream, serr := newTCPStream(connFd, l.reactor)
			if serr != nil {
				return task.Ready(cadentis.Result[*TCPStream]{Err: serr})
			}
			return task.Ready(cadentis.Result[*TCPStream]{Value: stream})
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			if _, rerr := l.reactor.RegisterOneShot(l.fd, task.Interest{Read: true}, w.Clone()); rerr != nil {
				return task.Ready(cadentis.Result[*TCPStream]{Err: rerr})
			}
			return task.Pending[cadentis.Result[*TCPStream]]()
		}
		if err == unix.EINTR {
			continue
		}
		return task.Ready(cadentis.Result[*TCPStream]{Err: err})
	}
}
