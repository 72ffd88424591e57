//go:build linux || darwin

package cadentisnet

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadentis/cadentis"
	"github.com/cadentis/cadentis/internal/task"
)

func newTestRuntime(t *testing.T) *cadentis.Runtime {
	t.Helper()
	rt, err := cadentis.NewBuilder().WorkerThreads(2).Build()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Shutdown(ctx)
	})
	return rt
}

// echoFuture accepts one connection and echoes back whatever it reads,
// grounded on spec.md §8 scenario G.
type echoFuture struct {
	listener *TCPListener
	accept   cadentis.Future[cadentis.Result[*TCPStream]]
	stream   *TCPStream
	read     cadentis.Future[cadentis.Result[int]]
	write    cadentis.Future[cadentis.Result[int]]
	buf      [64]byte
	n        int
	stage    int
}

func (f *echoFuture) Poll(w *task.Waker) task.Poll[struct{}] {
	for {
		switch f.stage {
		case 0:
			if f.accept == nil {
				f.accept = f.listener.Accept()
			}
			p := f.accept.Poll(w)
			if !p.Ready {
				return task.Pending[struct{}]()
			}
			if p.Value.Err != nil {
				return task.Ready(struct{}{})
			}
			f.stream = p.Value.Value
			f.stage = 1
		case 1:
			if f.read == nil {
				f.read = f.stream.Read(f.buf[:])
			}
			p := f.read.Poll(w)
			if !p.Ready {
				return task.Pending[struct{}]()
			}
			f.n = p.Value.Value
			f.stage = 2
		case 2:
			if f.write == nil {
				f.write = f.stream.Write(f.buf[:f.n])
			}
			p := f.write.Poll(w)
			if !p.Ready {
				return task.Pending[struct{}]()
			}
			return task.Ready(struct{}{})
		}
	}
}

func TestTCPEchoRoundTrip(t *testing.T) {
	rt := newTestRuntime(t)

	listener, err := Listen(rt, "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	serverDone := cadentis.Spawn[struct{}](rt, &echoFuture{listener: listener})

	clientRes := cadentis.BlockOn[cadentis.Result[[]byte]](rt, &clientFuture{rt: rt, addr: listener.Addr().String()})
	require.NoError(t, clientRes.Err)
	require.Equal(t, "ping", string(clientRes.Value))

	serverDone.Join()
}

// clientFuture dials the echo server, writes "ping", and reads 4 bytes back.
type clientFuture struct {
	rt     *cadentis.Runtime
	addr   string
	dial   cadentis.Future[cadentis.Result[*TCPStream]]
	stream *TCPStream
	write  cadentis.Future[cadentis.Result[int]]
	read   cadentis.Future[cadentis.Result[int]]
	buf    [4]byte
	stage  int
}

func (f *clientFuture) Poll(w *task.Waker) task.Poll[cadentis.Result[[]byte]] {
	for {
		switch f.stage {
		case 0:
			if f.dial == nil {
				f.dial = Dial(f.rt, f.addr)
			}
			p := f.dial.Poll(w)
			if !p.Ready {
				return task.Pending[cadentis.Result[[]byte]]()
			}
			if p.Value.Err != nil {
				return task.Ready(cadentis.Result[[]byte]{Err: p.Value.Err})
			}
			f.stream = p.Value.Value
			f.stage = 1
		case 1:
			if f.write == nil {
				f.write = f.stream.Write([]byte("ping"))
			}
			p := f.write.Poll(w)
			if !p.Ready {
				return task.Pending[cadentis.Result[[]byte]]()
			}
			if p.Value.Err != nil {
				return task.Ready(cadentis.Result[[]byte]{Err: p.Value.Err})
			}
			f.stage = 2
		case 2:
			if f.read == nil {
				f.read = f.stream.Read(f.buf[:])
			}
			p := f.read.Poll(w)
			if !p.Ready {
				return task.Pending[cadentis.Result[[]byte]]()
			}
			if p.Value.Err != nil {
				return task.Ready(cadentis.Result[[]byte]{Err: p.Value.Err})
			}
			return task.Ready(cadentis.Result[[]byte]{Value: append([]byte(nil), f.buf[:p.Value.Value]...)})
		}
	}
}

func TestListenerAddrResolves(t *testing.T) {
	rt := newTestRuntime(t)
	listener, err := Listen(rt, "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	addr, ok := listener.Addr().(*net.TCPAddr)
	require.True(t, ok)
	require.NotZero(t, addr.Port)
}
