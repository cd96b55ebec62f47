// Package core defines the native ABI surface of the transport engine: the
// Engine interface consumed by the control layer, the flat option and error
// enumerations, the socket state machine, the statistics aggregate, and the
// sockaddr buffer codec used for addresses crossing the boundary.
package core

// InvalidSocket is the sentinel returned by engine calls that allocate or
// return socket identifiers. It is never a valid live identifier.
const InvalidSocket int32 = -1

// Engine is the narrow ABI consumed by the control layer. Every call returns
// a signed result that is either a non-negative success value (a socket
// identifier, a byte count, or zero) or -1. On -1 the caller must query
// LastError for the specific code before issuing any further call on the
// same goroutine.
//
// Calls are individually thread-safe across distinct socket identifiers.
// Send, Recv and Accept are reentrant on the same identifier; lifecycle
// transitions are not and must not be raced against other calls on the
// same identifier.
type Engine interface {
	// CreateSocket allocates a new socket identifier in the Init state.
	CreateSocket() int32

	// Bind associates the socket with the native sockaddr buffer addr.
	Bind(sock int32, addr []byte) int32

	// Listen moves a bound socket into the listening state.
	Listen(sock int32, backlog int32) int32

	// Connect starts a connection attempt toward the native sockaddr
	// buffer addr. For blocking sockets it returns once the socket is
	// connected or broken.
	Connect(sock int32, addr []byte) int32

	// Rendezvous performs a symmetric connect: bind to local and connect
	// to remote simultaneously with the peer doing the mirror image.
	Rendezvous(sock int32, local, remote []byte) int32

	// Accept takes the next pending connection from a listening socket and
	// returns its new identifier. The peer address is written into addr
	// and its length into addrLen.
	Accept(sock int32, addr []byte, addrLen *int32) int32

	// Close releases the identifier. The identifier must not be used again.
	Close(sock int32) int32

	// Send writes buf to a connected socket and returns the byte count.
	Send(sock int32, buf []byte) int32

	// Recv reads into buf from a connected socket and returns the byte count.
	Recv(sock int32, buf []byte) int32

	// SetSockFlag sets option opt from the raw value buffer. The buffer
	// length must exactly match the option's native width; a mismatch is
	// undefined behavior in a real engine.
	SetSockFlag(sock int32, opt SockOpt, val []byte) int32

	// GetSockFlag reads option opt into val and stores the written length
	// in valLen.
	GetSockFlag(sock int32, opt SockOpt, val []byte, valLen *int32) int32

	// GetSockName writes the socket's local address into addr.
	GetSockName(sock int32, addr []byte, addrLen *int32) int32

	// GetPeerName writes the connected peer's address into addr.
	GetPeerName(sock int32, addr []byte, addrLen *int32) int32

	// SockState reports the lifecycle state. Unknown identifiers report
	// StatusNonExist rather than failing.
	SockState(sock int32) SockStatus

	// LastError returns the code recorded by the most recent failing call.
	LastError() ErrorCode

	// RejectReason returns the reject diagnostic recorded by the last
	// failed connection attempt on sock.
	RejectReason(sock int32) RejectReason

	// Bstats fills stats with a point-in-time snapshot of the socket's
	// counters. When clearIntervals is true the interval counters reset
	// after the read.
	Bstats(sock int32, stats *TraceStats, clearIntervals bool) int32
}
