// Package engine is the in-process reference engine behind the core.Engine
// ABI. It carries connections over the host network stack so the control
// layer can be exercised end to end; a binding to a real native transport
// engine can be substituted behind the same interface. The emulation keeps
// the ABI's conventions: signed results with -1 on failure, a last-error
// side channel, raw byte-buffer option marshaling, and reject-reason
// recording on failed connection attempts.
package engine

import (
	"errors"
	"io"
	"net"
	"net/netip"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/irctrakz/gosrt/pkg/core"
	"github.com/irctrakz/gosrt/pkg/logging"
)

// Engine implements core.Engine. Each Engine owns an independent identifier
// namespace; the package-level Default engine is what production callers
// share.
type Engine struct {
	reg     *registry
	lastErr atomic.Int32
}

var std = New()

// New returns an engine with an empty socket table.
func New() *Engine {
	return &Engine{reg: newRegistry()}
}

// Default returns the process-wide shared engine.
func Default() *Engine {
	return std
}

var _ core.Engine = (*Engine)(nil)

// fail records code in the last-error side channel and returns -1.
func (e *Engine) fail(code core.ErrorCode) int32 {
	e.lastErr.Store(int32(code))
	return -1
}

// LastError returns the code recorded by the most recent failing call.
func (e *Engine) LastError() core.ErrorCode {
	return core.ErrorCode(e.lastErr.Load())
}

// CreateSocket allocates a new identifier in the Init state.
func (e *Engine) CreateSocket() int32 {
	st := newSocketState()
	id := e.reg.register(st)
	logging.Debugf("engine: create socket %d", id)
	return id
}

// Bind records the socket's local address. The address buffer must be a
// well-formed native sockaddr.
func (e *Engine) Bind(sock int32, addr []byte) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	ap, err := core.SockaddrToAddrPort(addr)
	if err != nil {
		return e.fail(core.ErrInvParam)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	switch st.status {
	case core.StatusInit:
	case core.StatusOpened:
		return e.fail(core.ErrBoundSock)
	default:
		return e.fail(core.ErrConnSock)
	}
	st.bound = ap
	st.hasBound = true
	st.status = core.StatusOpened
	logging.Debugf("engine: bind socket %d to %s", sock, ap)
	return 0
}

// Listen opens the bound address for incoming connections.
func (e *Engine) Listen(sock int32, backlog int32) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	switch st.status {
	case core.StatusOpened:
	case core.StatusInit:
		return e.fail(core.ErrUnboundSock)
	case core.StatusListening:
		return e.fail(core.ErrDupListen)
	default:
		return e.fail(core.ErrConnSock)
	}
	ln, err := net.ListenTCP("tcp", net.TCPAddrFromAddrPort(st.bound))
	if err != nil {
		logging.Debugf("engine: listen socket %d: %v", sock, err)
		return e.fail(mapNetError(err))
	}
	st.listener = ln
	st.bound = ln.Addr().(*net.TCPAddr).AddrPort()
	st.status = core.StatusListening
	logging.Debugf("engine: socket %d listening on %s (backlog %d)", sock, st.bound, backlog)
	return 0
}

// Connect dials the peer. Blocking-mode semantics: the call returns once the
// socket is Connected or Broken. On failure the reject reason is recorded.
func (e *Engine) Connect(sock int32, addr []byte) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	target, err := core.SockaddrToAddrPort(addr)
	if err != nil {
		return e.fail(core.ErrInvParam)
	}

	st.mu.Lock()
	switch st.status {
	// An unbound socket binds implicitly to an ephemeral local address.
	case core.StatusInit, core.StatusOpened:
	case core.StatusConnected, core.StatusConnecting, core.StatusListening:
		st.mu.Unlock()
		return e.fail(core.ErrConnSock)
	default:
		st.mu.Unlock()
		return e.fail(core.ErrInvOp)
	}
	st.status = core.StatusConnecting
	timeout := st.optInt32(core.OptConnTimeO, defaultConnTimeoutMS)
	local := st.bound
	hasBound := st.hasBound
	st.mu.Unlock()

	dialer := net.Dialer{Timeout: time.Duration(timeout) * time.Millisecond}
	if hasBound && local.Port() != 0 {
		dialer.LocalAddr = net.TCPAddrFromAddrPort(local)
	}
	conn, err := dialer.Dial("tcp", target.String())

	st.mu.Lock()
	defer st.mu.Unlock()
	if err != nil {
		st.status = core.StatusBroken
		code := mapNetError(err)
		switch code {
		case core.ErrTimeout:
			st.reject = core.RejTimeout
			code = core.ErrNoServer
		case core.ErrConnRej:
			st.reject = core.RejClose
		default:
			st.reject = core.RejSystem
			code = core.ErrConnFail
		}
		logging.Debugf("engine: connect socket %d to %s failed: %v", sock, target, err)
		return e.fail(code)
	}
	st.conn = conn.(*net.TCPConn)
	st.bound = st.conn.LocalAddr().(*net.TCPAddr).AddrPort()
	st.hasBound = true
	st.status = core.StatusConnected
	st.applyConnOptions()
	logging.Debugf("engine: socket %d connected to %s", sock, target)
	return 0
}

// Rendezvous connects two symmetric peers. Both addresses must decode before
// any side effect occurs. Role election is deterministic: the endpoint with
// the lower local address listens, the other dials, so both sides agree
// without negotiation.
func (e *Engine) Rendezvous(sock int32, local, remote []byte) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	lap, err := core.SockaddrToAddrPort(local)
	if err != nil {
		return e.fail(core.ErrInvParam)
	}
	rap, err := core.SockaddrToAddrPort(remote)
	if err != nil {
		return e.fail(core.ErrInvParam)
	}

	st.mu.Lock()
	switch st.status {
	case core.StatusInit:
	case core.StatusOpened:
		st.mu.Unlock()
		return e.fail(core.ErrBoundSock)
	default:
		st.mu.Unlock()
		return e.fail(core.ErrConnSock)
	}
	st.bound = lap
	st.hasBound = true
	st.status = core.StatusConnecting
	timeout := time.Duration(st.optInt32(core.OptConnTimeO, defaultRdvTimeoutMS)) * time.Millisecond
	st.mu.Unlock()

	conn, err := rendezvousDial(lap, rap, timeout)

	st.mu.Lock()
	defer st.mu.Unlock()
	if err != nil {
		st.status = core.StatusBroken
		st.reject = core.RejTimeout
		logging.Debugf("engine: rendezvous socket %d %s<->%s failed: %v", sock, lap, rap, err)
		return e.fail(core.ErrNoServer)
	}
	st.conn = conn
	st.status = core.StatusConnected
	st.applyConnOptions()
	logging.Debugf("engine: socket %d rendezvous connected %s<->%s", sock, lap, rap)
	return 0
}

func rendezvousLess(a, b netip.AddrPort) bool {
	if c := a.Addr().Compare(b.Addr()); c != 0 {
		return c < 0
	}
	return a.Port() < b.Port()
}

func rendezvousDial(local, remote netip.AddrPort, timeout time.Duration) (*net.TCPConn, error) {
	deadline := time.Now().Add(timeout)
	if rendezvousLess(local, remote) {
		ln, err := net.ListenTCP("tcp", net.TCPAddrFromAddrPort(local))
		if err != nil {
			return nil, err
		}
		defer ln.Close()
		ln.SetDeadline(deadline)
		return ln.AcceptTCP()
	}
	// Dial side retries until the peer's listener is up or time runs out.
	for {
		d := net.Dialer{Timeout: 250 * time.Millisecond}
		conn, err := d.Dial("tcp", remote.String())
		if err == nil {
			return conn.(*net.TCPConn), nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// Accept takes the next pending connection and registers it as a new,
// independently-owned socket. Blocking behavior follows the listener's
// receive-blocking option.
func (e *Engine) Accept(sock int32, addr []byte, addrLen *int32) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	st.mu.Lock()
	if st.status != core.StatusListening || st.listener == nil {
		st.mu.Unlock()
		return e.fail(core.ErrNoListen)
	}
	ln := st.listener
	blocking := st.optBool(core.OptRcvSyn, true)
	st.mu.Unlock()

	if blocking {
		ln.SetDeadline(time.Time{})
	} else {
		ln.SetDeadline(time.Now())
	}
	conn, err := ln.AcceptTCP()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return e.fail(core.ErrAsyncRcv)
		}
		if errors.Is(err, net.ErrClosed) {
			return e.fail(core.ErrSClosed)
		}
		return e.fail(mapNetError(err))
	}

	st.mu.Lock()
	inherited := st.cloneOpts()
	st.mu.Unlock()

	ns := newSocketState()
	ns.opts = inherited
	ns.conn = conn
	ns.status = core.StatusConnected
	ns.hasBound = true
	ns.bound = conn.LocalAddr().(*net.TCPAddr).AddrPort()
	ns.mu.Lock()
	ns.applyConnOptions()
	ns.mu.Unlock()
	id := e.reg.register(ns)

	peer := conn.RemoteAddr().(*net.TCPAddr).AddrPort()
	if sa := core.SockaddrFromAddrPort(peer); addr != nil && len(addr) >= len(sa) {
		copy(addr, sa)
		if addrLen != nil {
			*addrLen = int32(len(sa))
		}
	} else if addrLen != nil {
		*addrLen = 0
	}
	logging.Debugf("engine: socket %d accepted %d from %s", sock, id, peer)
	return id
}

// Close releases the identifier. Any call blocked on the socket returns a
// broken/closed error. Close on an unknown identifier fails with EInvSock.
func (e *Engine) Close(sock int32) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	st.mu.Lock()
	st.status = core.StatusClosing
	if st.conn != nil {
		st.conn.Close()
		st.conn = nil
	}
	if st.listener != nil {
		st.listener.Close()
		st.listener = nil
	}
	st.status = core.StatusClosed
	st.mu.Unlock()
	e.reg.unregister(sock)
	logging.Debugf("engine: closed socket %d", sock)
	return 0
}

// GetSockName writes the socket's local address into addr.
func (e *Engine) GetSockName(sock int32, addr []byte, addrLen *int32) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	var ap netip.AddrPort
	switch {
	case st.conn != nil:
		ap = st.conn.LocalAddr().(*net.TCPAddr).AddrPort()
	case st.listener != nil:
		ap = st.listener.Addr().(*net.TCPAddr).AddrPort()
	case st.hasBound:
		ap = st.bound
	default:
		return e.fail(core.ErrUnboundSock)
	}
	return writeSockaddr(e, ap, addr, addrLen)
}

// GetPeerName writes the connected peer's address into addr.
func (e *Engine) GetPeerName(sock int32, addr []byte, addrLen *int32) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.conn == nil {
		return e.fail(core.ErrNoConn)
	}
	return writeSockaddr(e, st.conn.RemoteAddr().(*net.TCPAddr).AddrPort(), addr, addrLen)
}

func writeSockaddr(e *Engine, ap netip.AddrPort, addr []byte, addrLen *int32) int32 {
	sa := core.SockaddrFromAddrPort(ap)
	if len(addr) < len(sa) {
		return e.fail(core.ErrInvParam)
	}
	copy(addr, sa)
	if addrLen != nil {
		*addrLen = int32(len(sa))
	}
	return 0
}

// SockState reports the lifecycle state; unknown identifiers report NonExist.
func (e *Engine) SockState(sock int32) core.SockStatus {
	st, ok := e.reg.get(sock)
	if !ok {
		return core.StatusNonExist
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.status
}

// RejectReason returns the diagnostic from the last failed connection
// attempt on sock, or RejUnknown.
func (e *Engine) RejectReason(sock int32) core.RejectReason {
	st, ok := e.reg.get(sock)
	if !ok {
		return core.RejUnknown
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.reject
}

// mapNetError translates a host network error into a native error code.
func mapNetError(err error) core.ErrorCode {
	if err == nil {
		return core.ErrSuccess
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return core.ErrTimeout
	}
	if errors.Is(err, net.ErrClosed) {
		return core.ErrSClosed
	}
	if errors.Is(err, io.EOF) {
		return core.ErrConnLost
	}
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return core.ErrConnRej
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return core.ErrConnLost
	case errors.Is(err, syscall.EADDRINUSE):
		return core.ErrDupListen
	case errors.Is(err, syscall.EADDRNOTAVAIL):
		return core.ErrConnSetup
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return core.ErrConnFail
	}
	return core.ErrResource
}
