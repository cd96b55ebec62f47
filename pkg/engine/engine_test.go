package engine

import (
	"net"
	"net/netip"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/irctrakz/gosrt/pkg/core"
)

func loopbackSockaddr(port uint16) []byte {
	return core.SockaddrFromAddrPort(netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), port))
}

// boundPort reads back the real port after binding to :0.
func boundPort(t *testing.T, e *Engine, sock int32) uint16 {
	t.Helper()
	buf := make([]byte, core.SockaddrLen6)
	var blen int32
	if e.GetSockName(sock, buf, &blen) != 0 {
		t.Fatalf("getsockname failed: %s", e.LastError())
	}
	ap, err := core.SockaddrToAddrPort(buf[:blen])
	if err != nil {
		t.Fatalf("bad sockaddr from engine: %v", err)
	}
	return ap.Port()
}

func TestLifecycleAndTransfer(t *testing.T) {
	e := New()

	srv := e.CreateSocket()
	if srv == core.InvalidSocket {
		t.Fatal("create failed")
	}
	if e.SockState(srv) != core.StatusInit {
		t.Fatalf("new socket state = %s", e.SockState(srv))
	}
	if e.Bind(srv, loopbackSockaddr(0)) != 0 {
		t.Fatalf("bind failed: %s", e.LastError())
	}
	if e.SockState(srv) != core.StatusOpened {
		t.Fatalf("bound socket state = %s", e.SockState(srv))
	}
	if e.Listen(srv, 4) != 0 {
		t.Fatalf("listen failed: %s", e.LastError())
	}
	if e.SockState(srv) != core.StatusListening {
		t.Fatalf("listening socket state = %s", e.SockState(srv))
	}
	port := boundPort(t, e, srv)

	cli := e.CreateSocket()
	if e.Bind(cli, loopbackSockaddr(0)) != 0 {
		t.Fatalf("client bind failed: %s", e.LastError())
	}
	if e.Connect(cli, loopbackSockaddr(port)) != 0 {
		t.Fatalf("connect failed: %s", e.LastError())
	}
	if e.SockState(cli) != core.StatusConnected {
		t.Fatalf("connected socket state = %s", e.SockState(cli))
	}

	peerBuf := make([]byte, core.SockaddrLen6)
	var peerLen int32
	acc := e.Accept(srv, peerBuf, &peerLen)
	if acc == core.InvalidSocket {
		t.Fatalf("accept failed: %s", e.LastError())
	}
	if _, err := core.SockaddrToAddrPort(peerBuf[:peerLen]); err != nil {
		t.Fatalf("accept wrote bad peer address: %v", err)
	}

	if n := e.Send(cli, []byte("hello")); n != 5 {
		t.Fatalf("send returned %d: %s", n, e.LastError())
	}
	buf := make([]byte, 64)
	if n := e.Recv(acc, buf); n != 5 || string(buf[:5]) != "hello" {
		t.Fatalf("recv returned %d %q", n, buf[:max(n, 0)])
	}

	for _, sock := range []int32{cli, acc, srv} {
		if e.Close(sock) != 0 {
			t.Fatalf("close %d failed: %s", sock, e.LastError())
		}
	}
	if e.SockState(cli) != core.StatusNonExist {
		t.Fatal("closed socket should be gone")
	}
}

func TestStateViolations(t *testing.T) {
	e := New()
	sock := e.CreateSocket()

	// Listen needs a bound socket. Connect does not: it binds implicitly.
	if e.Listen(sock, 1) != -1 || e.LastError() != core.ErrUnboundSock {
		t.Fatalf("listen on unbound: %s", e.LastError())
	}

	if e.Bind(sock, loopbackSockaddr(0)) != 0 {
		t.Fatalf("bind failed: %s", e.LastError())
	}
	// Double bind is refused.
	if e.Bind(sock, loopbackSockaddr(0)) != -1 || e.LastError() != core.ErrBoundSock {
		t.Fatalf("double bind: %s", e.LastError())
	}
	if e.Listen(sock, 1) != 0 {
		t.Fatalf("listen failed: %s", e.LastError())
	}
	if e.Listen(sock, 1) != -1 || e.LastError() != core.ErrDupListen {
		t.Fatalf("double listen: %s", e.LastError())
	}
	// Connect on a listening socket is refused.
	if e.Connect(sock, loopbackSockaddr(9)) != -1 || e.LastError() != core.ErrConnSock {
		t.Fatalf("connect on listener: %s", e.LastError())
	}
	// Accept on a non-listener.
	other := e.CreateSocket()
	if e.Accept(other, nil, nil) != core.InvalidSocket || e.LastError() != core.ErrNoListen {
		t.Fatalf("accept on non-listener: %s", e.LastError())
	}
	e.Close(other)
	e.Close(sock)

	// Operations on an unknown identifier.
	if e.Send(12345, []byte("x")) != -1 || e.LastError() != core.ErrInvSock {
		t.Fatalf("send on unknown: %s", e.LastError())
	}
	if e.SockState(12345) != core.StatusNonExist {
		t.Fatal("unknown socket should report NonExist")
	}
}

func TestConnectFromInitBindsImplicitly(t *testing.T) {
	e := New()
	srv := e.CreateSocket()
	if e.Bind(srv, loopbackSockaddr(0)) != 0 || e.Listen(srv, 1) != 0 {
		t.Fatalf("listener setup failed: %s", e.LastError())
	}
	port := boundPort(t, e, srv)
	defer e.Close(srv)

	// No bind call: connect must pick an ephemeral local address itself.
	cli := e.CreateSocket()
	if e.Connect(cli, loopbackSockaddr(port)) != 0 {
		t.Fatalf("connect from init failed: %s", e.LastError())
	}
	defer e.Close(cli)
	if e.SockState(cli) != core.StatusConnected {
		t.Fatalf("state after connect = %s", e.SockState(cli))
	}
	if p := boundPort(t, e, cli); p == 0 {
		t.Fatal("implicit bind should report a real local port")
	}
}

func TestConnectionRefusedRecordsReject(t *testing.T) {
	e := New()

	// Grab a port that nothing listens on.
	probe := e.CreateSocket()
	if e.Bind(probe, loopbackSockaddr(0)) != 0 || e.Listen(probe, 1) != 0 {
		t.Fatalf("probe setup failed: %s", e.LastError())
	}
	port := boundPort(t, e, probe)
	e.Close(probe)

	sock := e.CreateSocket()
	if e.Bind(sock, loopbackSockaddr(0)) != 0 {
		t.Fatalf("bind failed: %s", e.LastError())
	}
	if e.Connect(sock, loopbackSockaddr(port)) != -1 {
		t.Fatal("connect to dead port should fail")
	}
	if e.LastError() != core.ErrConnRej {
		t.Fatalf("expected connection rejected, got %s", e.LastError())
	}
	if e.RejectReason(sock) != core.RejClose {
		t.Fatalf("expected close reject reason, got %s", e.RejectReason(sock))
	}
	if e.SockState(sock) != core.StatusBroken {
		t.Fatalf("failed connect should break the socket, state = %s", e.SockState(sock))
	}
	e.Close(sock)
}

func TestNonBlockingAccept(t *testing.T) {
	e := New()
	sock := e.CreateSocket()
	if e.Bind(sock, loopbackSockaddr(0)) != 0 || e.Listen(sock, 1) != 0 {
		t.Fatalf("setup failed: %s", e.LastError())
	}
	if e.SetSockFlag(sock, core.OptRcvSyn, []byte{0}) != 0 {
		t.Fatalf("set non-blocking failed: %s", e.LastError())
	}
	if e.Accept(sock, nil, nil) != core.InvalidSocket || e.LastError() != core.ErrAsyncRcv {
		t.Fatalf("non-blocking accept with no caller: %s", e.LastError())
	}
	e.Close(sock)
}

func TestOptionWidthValidation(t *testing.T) {
	e := New()
	sock := e.CreateSocket()
	defer e.Close(sock)

	// Wrong width for an int32 option.
	if e.SetSockFlag(sock, core.OptMSS, []byte{1, 2}) != -1 || e.LastError() != core.ErrInvParam {
		t.Fatalf("short MSS value: %s", e.LastError())
	}
	// Read-only options refuse writes.
	if e.SetSockFlag(sock, core.OptVersion, make([]byte, 4)) != -1 || e.LastError() != core.ErrInvOp {
		t.Fatalf("write to read-only option: %s", e.LastError())
	}
	// Unknown option identifier.
	if e.SetSockFlag(sock, core.SockOpt(999), make([]byte, 4)) != -1 || e.LastError() != core.ErrInvParam {
		t.Fatalf("unknown option: %s", e.LastError())
	}
	// Round trip through raw bytes.
	if e.SetSockFlag(sock, core.OptMSS, encInt32(1400)) != 0 {
		t.Fatalf("set MSS failed: %s", e.LastError())
	}
	out := make([]byte, 4)
	var olen int32
	if e.GetSockFlag(sock, core.OptMSS, out, &olen) != 0 || olen != 4 {
		t.Fatalf("get MSS failed: %s", e.LastError())
	}
	if decInt32(out) != 1400 {
		t.Fatalf("MSS round trip: got %d", decInt32(out))
	}
}

func TestPreBindOptionAfterBind(t *testing.T) {
	e := New()
	sock := e.CreateSocket()
	defer e.Close(sock)
	if e.Bind(sock, loopbackSockaddr(0)) != 0 {
		t.Fatalf("bind failed: %s", e.LastError())
	}
	if e.SetSockFlag(sock, core.OptMSS, encInt32(1400)) != -1 || e.LastError() != core.ErrBoundSock {
		t.Fatalf("pre-bind option after bind: %s", e.LastError())
	}
}

func TestRendezvous(t *testing.T) {
	e := New()

	// Reserve two loopback ports, then release them for the rendezvous.
	p1 := reservePort(t, e)
	p2 := reservePort(t, e)

	a := e.CreateSocket()
	b := e.CreateSocket()
	defer e.Close(a)
	defer e.Close(b)

	results := make(chan int32, 2)
	go func() { results <- e.Rendezvous(a, loopbackSockaddr(p1), loopbackSockaddr(p2)) }()
	go func() { results <- e.Rendezvous(b, loopbackSockaddr(p2), loopbackSockaddr(p1)) }()
	for i := 0; i < 2; i++ {
		select {
		case rc := <-results:
			if rc != 0 {
				t.Fatalf("rendezvous failed: %s", e.LastError())
			}
		case <-time.After(5 * time.Second):
			t.Fatal("rendezvous timed out")
		}
	}
	if e.SockState(a) != core.StatusConnected || e.SockState(b) != core.StatusConnected {
		t.Fatalf("states after rendezvous: %s / %s", e.SockState(a), e.SockState(b))
	}

	if n := e.Send(a, []byte("rdv")); n != 3 {
		t.Fatalf("send over rendezvous returned %d: %s", n, e.LastError())
	}
	buf := make([]byte, 16)
	if n := e.Recv(b, buf); n != 3 || string(buf[:3]) != "rdv" {
		t.Fatalf("recv over rendezvous returned %d %q", n, buf[:max(n, 0)])
	}
}

func reservePort(t *testing.T, e *Engine) uint16 {
	t.Helper()
	sock := e.CreateSocket()
	if e.Bind(sock, loopbackSockaddr(0)) != 0 || e.Listen(sock, 1) != 0 {
		t.Fatalf("port reservation failed: %s", e.LastError())
	}
	port := boundPort(t, e, sock)
	e.Close(sock)
	return port
}

func TestBstatsCounters(t *testing.T) {
	e := New()

	srv := e.CreateSocket()
	if e.Bind(srv, loopbackSockaddr(0)) != 0 || e.Listen(srv, 1) != 0 {
		t.Fatalf("setup failed: %s", e.LastError())
	}
	port := boundPort(t, e, srv)
	cli := e.CreateSocket()
	if e.Bind(cli, loopbackSockaddr(0)) != 0 || e.Connect(cli, loopbackSockaddr(port)) != 0 {
		t.Fatalf("connect failed: %s", e.LastError())
	}
	acc := e.Accept(srv, nil, nil)
	if acc == core.InvalidSocket {
		t.Fatalf("accept failed: %s", e.LastError())
	}
	defer e.Close(srv)
	defer e.Close(cli)
	defer e.Close(acc)

	if e.Send(cli, []byte("hello")) != 5 {
		t.Fatalf("send failed: %s", e.LastError())
	}
	buf := make([]byte, 16)
	if e.Recv(acc, buf) != 5 {
		t.Fatalf("recv failed: %s", e.LastError())
	}

	var stats core.TraceStats
	if e.Bstats(cli, &stats, true) != 0 {
		t.Fatalf("bstats failed: %s", e.LastError())
	}
	if stats.PktSentTotal != 1 || stats.ByteSentTotal != 5 {
		t.Fatalf("sender totals: pkts=%d bytes=%d", stats.PktSentTotal, stats.ByteSentTotal)
	}
	if stats.PktSent != 1 || stats.ByteSent != 5 {
		t.Fatalf("sender interval: pkts=%d bytes=%d", stats.PktSent, stats.ByteSent)
	}
	if stats.ByteMSS == 0 || stats.PktFlowWindow == 0 {
		t.Fatal("configuration gauges missing")
	}

	// Interval counters restart after a clearing snapshot; totals persist.
	if e.Bstats(cli, &stats, false) != 0 {
		t.Fatalf("bstats failed: %s", e.LastError())
	}
	if stats.PktSent != 0 || stats.ByteSent != 0 {
		t.Fatalf("interval not cleared: pkts=%d bytes=%d", stats.PktSent, stats.ByteSent)
	}
	if stats.PktSentTotal != 1 || stats.ByteSentTotal != 5 {
		t.Fatalf("totals lost on clear: pkts=%d bytes=%d", stats.PktSentTotal, stats.ByteSentTotal)
	}

	if e.Bstats(99999, &stats, false) != -1 || e.LastError() != core.ErrInvSock {
		t.Fatalf("bstats on unknown socket: %s", e.LastError())
	}
}

func TestMapNetErrorClassifiesErrnos(t *testing.T) {
	cases := []struct {
		err  error
		code core.ErrorCode
	}{
		{&net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, core.ErrConnRej},
		{syscall.ECONNRESET, core.ErrConnLost},
		{&net.OpError{Op: "write", Err: syscall.EPIPE}, core.ErrConnLost},
		{syscall.EADDRINUSE, core.ErrDupListen},
		{&net.OpError{Op: "listen", Err: syscall.EADDRNOTAVAIL}, core.ErrConnSetup},
		{syscall.ENETUNREACH, core.ErrConnFail},
		{syscall.EHOSTUNREACH, core.ErrConnFail},
	}
	for _, tc := range cases {
		if got := mapNetError(tc.err); got != tc.code {
			t.Fatalf("mapNetError(%v) = %s, want %s", tc.err, got, tc.code)
		}
	}
}

func TestRecvTimeout(t *testing.T) {
	e := New()
	srv := e.CreateSocket()
	if e.Bind(srv, loopbackSockaddr(0)) != 0 || e.Listen(srv, 1) != 0 {
		t.Fatalf("setup failed: %s", e.LastError())
	}
	port := boundPort(t, e, srv)
	cli := e.CreateSocket()
	if e.Bind(cli, loopbackSockaddr(0)) != 0 || e.Connect(cli, loopbackSockaddr(port)) != 0 {
		t.Fatalf("connect failed: %s", e.LastError())
	}
	acc := e.Accept(srv, nil, nil)
	defer e.Close(srv)
	defer e.Close(cli)
	defer e.Close(acc)

	if e.SetSockFlag(cli, core.OptRcvTimeO, encInt32(20)) != 0 {
		t.Fatalf("set recv timeout failed: %s", e.LastError())
	}
	start := time.Now()
	if e.Recv(cli, make([]byte, 16)) != -1 || e.LastError() != core.ErrTimeout {
		t.Fatalf("expected recv timeout, got %s", e.LastError())
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout took far too long")
	}
}
