package srt

import (
	"fmt"

	"github.com/irctrakz/gosrt/pkg/core"
)

// ErrorKind partitions failures by what the caller can do about them, not by
// which native call produced them.
type ErrorKind int

const (
	// KindAddressResolution covers host strings that could not be parsed or
	// resolved. The native engine was never entered.
	KindAddressResolution ErrorKind = iota
	// KindSocketCreation means the engine could not allocate a socket.
	KindSocketCreation
	// KindInvalidOperation means the call is illegal for the socket's current
	// lifecycle state, including any call on a closed handle.
	KindInvalidOperation
	// KindConnectionRejected means the peer turned the connection down; the
	// reject reason says why.
	KindConnectionRejected
	// KindConnectionBroken means an established connection is gone.
	KindConnectionBroken
	// KindBufferTooSmall means a caller-supplied buffer cannot hold the value.
	KindBufferTooSmall
	// KindValueTruncated means a value exceeds the option's wire capacity and
	// was refused rather than silently cut.
	KindValueTruncated
	// KindNativeProtocol is the residual class: the engine failed with a code
	// that maps to no richer kind. The code is preserved verbatim.
	KindNativeProtocol
)

var kindNames = map[ErrorKind]string{
	KindAddressResolution:  "address resolution",
	KindSocketCreation:     "socket creation",
	KindInvalidOperation:   "invalid operation",
	KindConnectionRejected: "connection rejected",
	KindConnectionBroken:   "connection broken",
	KindBufferTooSmall:     "buffer too small",
	KindValueTruncated:     "value truncated",
	KindNativeProtocol:     "protocol error",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the single error type returned by this package. Kind is always
// meaningful; Code carries the native error code when the engine was
// involved, and Reason carries the reject diagnostic for rejected
// connections.
type Error struct {
	Kind   ErrorKind
	Op     string
	Code   core.ErrorCode
	Reason core.RejectReason
	cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindConnectionRejected:
		return fmt.Sprintf("srt: %s: %s: %s", e.Op, e.Kind, e.Reason)
	case e.cause != nil:
		return fmt.Sprintf("srt: %s: %s: %v", e.Op, e.Kind, e.cause)
	case e.Code != core.ErrSuccess:
		return fmt.Sprintf("srt: %s: %s: %s", e.Op, e.Kind, e.Code)
	}
	return fmt.Sprintf("srt: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// Timeout reports whether the failure was a send/receive/connect timeout, so
// callers can retry without string matching.
func (e *Error) Timeout() bool {
	return e.Code == core.ErrTimeout || e.Code == core.ErrNoServer ||
		e.Code == core.ErrAsyncSnd || e.Code == core.ErrAsyncRcv
}

// classify maps a native error code to its taxonomy kind.
func classify(code core.ErrorCode) ErrorKind {
	switch code {
	case core.ErrInvOp, core.ErrBoundSock, core.ErrConnSock, core.ErrInvSock,
		core.ErrUnboundSock, core.ErrNoListen, core.ErrRdvNoServ,
		core.ErrRdvUnbound, core.ErrNoConn, core.ErrDupListen:
		return KindInvalidOperation
	case core.ErrConnRej:
		return KindConnectionRejected
	case core.ErrConnLost, core.ErrConnFail, core.ErrPeerErr, core.ErrSClosed:
		return KindConnectionBroken
	case core.ErrSockFail:
		return KindSocketCreation
	}
	return KindNativeProtocol
}

// errClosed is the error for any operation on a handle whose socket has been
// closed or moved away.
func errClosed(op string) *Error {
	return &Error{Kind: KindInvalidOperation, Op: op, Code: core.ErrInvSock}
}

func errResolve(op string, cause error) *Error {
	return &Error{Kind: KindAddressResolution, Op: op, cause: cause}
}

// nativeError builds the taxonomy error for a failed engine call, pulling the
// code from the last-error channel and, for rejections, the reject reason
// from the socket.
func nativeError(eng core.Engine, op string, sock int32) *Error {
	code := eng.LastError()
	e := &Error{Kind: classify(code), Op: op, Code: code}
	if e.Kind == KindConnectionRejected {
		e.Reason = eng.RejectReason(sock)
	}
	return e
}
