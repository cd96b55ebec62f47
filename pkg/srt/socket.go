// Package srt is the typed control layer over a native-style transport
// engine. A Socket owns exactly one engine identifier: every constructor
// that allocates one either returns a live handle or releases the
// identifier before reporting the error, and Close consumes the handle so
// later calls fail cleanly instead of touching a stale or reused
// identifier.
package srt

import (
	"net/netip"
	"sync/atomic"

	"github.com/irctrakz/gosrt/pkg/core"
	"github.com/irctrakz/gosrt/pkg/engine"
	"github.com/irctrakz/gosrt/pkg/logging"
)

// Socket wraps one engine socket identifier with lifecycle-checked typed
// operations. The zero value is not usable; construct with New or NewWith.
// A Socket is safe for concurrent use; the engine serializes per-socket
// state internally.
type Socket struct {
	eng core.Engine
	id  atomic.Int32
}

// New allocates a socket on the default engine.
func New() (*Socket, error) {
	return NewWith(engine.Default())
}

// NewWith allocates a socket on the given engine.
func NewWith(eng core.Engine) (*Socket, error) {
	id := eng.CreateSocket()
	if id == core.InvalidSocket {
		return nil, nativeError(eng, "create", core.InvalidSocket)
	}
	s := &Socket{eng: eng}
	s.id.Store(id)
	return s, nil
}

// handle returns the live identifier, or an error after Close.
func (s *Socket) handle(op string) (int32, *Error) {
	id := s.id.Load()
	if id == core.InvalidSocket {
		return core.InvalidSocket, errClosed(op)
	}
	return id, nil
}

// ID exposes the raw engine identifier for diagnostics. It is
// core.InvalidSocket once the socket is closed.
func (s *Socket) ID() int32 { return s.id.Load() }

// Bind attaches the socket to a local "host:port" address. Legal only on a
// freshly created socket.
func (s *Socket) Bind(local string) error {
	id, e := s.handle("bind")
	if e != nil {
		return e
	}
	sa, e := resolveSockaddr("bind", local)
	if e != nil {
		return e
	}
	if s.eng.Bind(id, sa) != 0 {
		return nativeError(s.eng, "bind", id)
	}
	return nil
}

// Listen opens a bound socket for incoming callers. backlog caps the number
// of connections the engine queues before Accept collects them.
func (s *Socket) Listen(backlog int) error {
	id, e := s.handle("listen")
	if e != nil {
		return e
	}
	if s.eng.Listen(id, int32(backlog)) != 0 {
		return nativeError(s.eng, "listen", id)
	}
	return nil
}

// Connect dials a remote "host:port". The address resolves before the
// engine is entered, so a bad hostname never changes socket state.
func (s *Socket) Connect(remote string) error {
	id, e := s.handle("connect")
	if e != nil {
		return e
	}
	sa, e := resolveSockaddr("connect", remote)
	if e != nil {
		return e
	}
	if s.eng.Connect(id, sa) != 0 {
		return nativeError(s.eng, "connect", id)
	}
	return nil
}

// Rendezvous connects two symmetric peers, each naming its own address and
// the other's. Both addresses must resolve before any native call is made.
func (s *Socket) Rendezvous(local, remote string) error {
	id, e := s.handle("rendezvous")
	if e != nil {
		return e
	}
	lsa, e := resolveSockaddr("rendezvous", local)
	if e != nil {
		return e
	}
	rsa, e := resolveSockaddr("rendezvous", remote)
	if e != nil {
		return e
	}
	if s.eng.Rendezvous(id, lsa, rsa) != 0 {
		return nativeError(s.eng, "rendezvous", id)
	}
	return nil
}

// Accept takes the next pending connection off a listening socket and
// returns it as an independently owned Socket along with the peer address.
// With receive blocking disabled it fails immediately when nothing is
// pending.
func (s *Socket) Accept() (*Socket, netip.AddrPort, error) {
	id, e := s.handle("accept")
	if e != nil {
		return nil, netip.AddrPort{}, e
	}
	buf := make([]byte, core.SockaddrLen6)
	var blen int32
	nid := s.eng.Accept(id, buf, &blen)
	if nid == core.InvalidSocket {
		return nil, netip.AddrPort{}, nativeError(s.eng, "accept", id)
	}
	peer, err := core.SockaddrToAddrPort(buf[:blen])
	if err != nil {
		// Peer socket is live but unreportable; release it.
		s.eng.Close(nid)
		return nil, netip.AddrPort{}, &Error{Kind: KindNativeProtocol, Op: "accept", cause: err}
	}
	ns := &Socket{eng: s.eng}
	ns.id.Store(nid)
	logging.Debugf("srt: accepted socket %d from %s", nid, peer)
	return ns, peer, nil
}

// Close releases the socket. It consumes the handle: the first call closes
// the engine socket, every later call is a no-op, and both return nil.
// Concurrent operations blocked on the socket fail with a broken or closed
// error.
func (s *Socket) Close() error {
	id := s.id.Swap(core.InvalidSocket)
	if id == core.InvalidSocket {
		return nil
	}
	s.eng.Close(id)
	return nil
}

// Send writes data on a connected socket and returns the byte count. In
// non-blocking mode a full send queue fails with a timeout-classed error
// rather than a short count.
func (s *Socket) Send(data []byte) (int, error) {
	id, e := s.handle("send")
	if e != nil {
		return 0, e
	}
	n := s.eng.Send(id, data)
	if n < 0 {
		return 0, nativeError(s.eng, "send", id)
	}
	return int(n), nil
}

// Recv reads available data into buf and returns the byte count.
func (s *Socket) Recv(buf []byte) (int, error) {
	id, e := s.handle("recv")
	if e != nil {
		return 0, e
	}
	n := s.eng.Recv(id, buf)
	if n < 0 {
		return 0, nativeError(s.eng, "recv", id)
	}
	return int(n), nil
}

// LocalAddr reports the address the socket is bound or connected on.
func (s *Socket) LocalAddr() (netip.AddrPort, error) {
	return s.nameCall("local address", s.eng.GetSockName)
}

// PeerAddr reports the connected peer's address.
func (s *Socket) PeerAddr() (netip.AddrPort, error) {
	return s.nameCall("peer address", s.eng.GetPeerName)
}

func (s *Socket) nameCall(op string, call func(int32, []byte, *int32) int32) (netip.AddrPort, error) {
	id, e := s.handle(op)
	if e != nil {
		return netip.AddrPort{}, e
	}
	buf := make([]byte, core.SockaddrLen6)
	var blen int32
	if call(id, buf, &blen) != 0 {
		return netip.AddrPort{}, nativeError(s.eng, op, id)
	}
	ap, err := core.SockaddrToAddrPort(buf[:blen])
	if err != nil {
		return netip.AddrPort{}, &Error{Kind: KindNativeProtocol, Op: op, cause: err}
	}
	return ap, nil
}

// State reports the engine's lifecycle state for the socket. A closed handle
// reports StatusNonExist.
func (s *Socket) State() core.SockStatus {
	id := s.id.Load()
	if id == core.InvalidSocket {
		return core.StatusNonExist
	}
	return s.eng.SockState(id)
}

// RejectReason reports why the most recent connection attempt on this socket
// was turned down, or RejUnknown when none failed.
func (s *Socket) RejectReason() core.RejectReason {
	id := s.id.Load()
	if id == core.InvalidSocket {
		return core.RejUnknown
	}
	return s.eng.RejectReason(id)
}
