// io.go — data path. Send and recv honor the per-socket blocking flags and
// timeout options by arming connection deadlines per call; a timeout or
// broken carrier is reported through the last-error side channel, never as
// a byte count.
package engine

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/irctrakz/gosrt/pkg/core"
)

// Send writes buf to a connected socket and returns the byte count.
func (e *Engine) Send(sock int32, buf []byte) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	st.mu.Lock()
	conn := st.conn
	status := st.status
	blocking := st.optBool(core.OptSndSyn, true)
	timeoutMS := st.optInt32(core.OptSndTimeO, -1)
	st.mu.Unlock()
	if status != core.StatusConnected || conn == nil {
		return e.fail(core.ErrNoConn)
	}

	armDeadline(conn.SetWriteDeadline, blocking, timeoutMS)
	n, err := conn.Write(buf)
	if err != nil {
		return e.fail(e.ioError(st, err, blocking, core.ErrAsyncSnd))
	}
	st.counters.addSent(int64(n))
	return int32(n)
}

// Recv reads into buf from a connected socket and returns the byte count.
func (e *Engine) Recv(sock int32, buf []byte) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	st.mu.Lock()
	conn := st.conn
	status := st.status
	blocking := st.optBool(core.OptRcvSyn, true)
	timeoutMS := st.optInt32(core.OptRcvTimeO, -1)
	st.mu.Unlock()
	if status != core.StatusConnected || conn == nil {
		return e.fail(core.ErrNoConn)
	}

	armDeadline(conn.SetReadDeadline, blocking, timeoutMS)
	n, err := conn.Read(buf)
	if n > 0 {
		st.counters.addRecv(int64(n))
		return int32(n)
	}
	if err != nil {
		return e.fail(e.ioError(st, err, blocking, core.ErrAsyncRcv))
	}
	return 0
}

// armDeadline sets a per-call deadline: immediate for non-blocking sockets,
// now+timeout when a timeout option is set, none otherwise.
func armDeadline(set func(time.Time) error, blocking bool, timeoutMS int32) {
	switch {
	case !blocking:
		set(time.Now())
	case timeoutMS >= 0:
		set(time.Now().Add(time.Duration(timeoutMS) * time.Millisecond))
	default:
		set(time.Time{})
	}
}

// ioError classifies a data-path failure and marks the socket Broken when
// the carrier is gone.
func (e *Engine) ioError(st *socketState, err error, blocking bool, wouldBlock core.ErrorCode) core.ErrorCode {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		if !blocking {
			return wouldBlock
		}
		return core.ErrTimeout
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		st.mu.Lock()
		if st.status == core.StatusConnected {
			st.status = core.StatusBroken
		}
		st.mu.Unlock()
		if errors.Is(err, net.ErrClosed) {
			return core.ErrSClosed
		}
		return core.ErrConnLost
	}
	code := mapNetError(err)
	if code == core.ErrConnLost {
		st.mu.Lock()
		if st.status == core.StatusConnected {
			st.status = core.StatusBroken
		}
		st.mu.Unlock()
	}
	return code
}
