package srt

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irctrakz/gosrt/pkg/core"
	"github.com/irctrakz/gosrt/pkg/engine"
)

func newTestSocket(t *testing.T) *Socket {
	t.Helper()
	s, err := NewWith(engine.New())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// connectedPair builds a listener/caller/accepted triple on loopback.
func connectedPair(t *testing.T) (caller, accepted *Socket) {
	t.Helper()
	eng := engine.New()

	ln, err := NewWith(eng)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	require.NoError(t, ln.Bind("127.0.0.1:0"))
	require.NoError(t, ln.Listen(1))
	addr, err := ln.LocalAddr()
	require.NoError(t, err)

	caller, err = NewWith(eng)
	require.NoError(t, err)
	t.Cleanup(func() { caller.Close() })
	require.NoError(t, caller.Bind("127.0.0.1:0"))
	require.NoError(t, caller.Connect(addr.String()))

	accepted, peer, err := ln.Accept()
	require.NoError(t, err)
	t.Cleanup(func() { accepted.Close() })

	callerAddr, err := caller.LocalAddr()
	require.NoError(t, err)
	assert.Equal(t, callerAddr, peer, "accept should report the caller's address")
	return caller, accepted
}

func TestConnectAcceptTransfer(t *testing.T) {
	caller, accepted := connectedPair(t)

	assert.Equal(t, core.StatusConnected, caller.State())
	assert.Equal(t, core.StatusConnected, accepted.State())

	n, err := caller.Send([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	buf := make([]byte, 64)
	n, err = accepted.Recv(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	// And the other direction.
	_, err = accepted.Send([]byte("world"))
	require.NoError(t, err)
	n, err = caller.Recv(buf)
	require.NoError(t, err)
	assert.Equal(t, "world", string(buf[:n]))

	peerOfCaller, err := caller.PeerAddr()
	require.NoError(t, err)
	acceptedLocal, err := accepted.LocalAddr()
	require.NoError(t, err)
	assert.Equal(t, acceptedLocal, peerOfCaller)
}

func TestConnectWithoutBind(t *testing.T) {
	eng := engine.New()

	ln, err := NewWith(eng)
	require.NoError(t, err)
	defer ln.Close()
	require.NoError(t, ln.Bind("127.0.0.1:0"))
	require.NoError(t, ln.Listen(1))
	addr, err := ln.LocalAddr()
	require.NoError(t, err)

	// A freshly created socket connects directly; the engine binds it to an
	// ephemeral local address on the way.
	caller, err := NewWith(eng)
	require.NoError(t, err)
	defer caller.Close()
	require.NoError(t, caller.Connect(addr.String()))
	assert.Equal(t, core.StatusConnected, caller.State())

	local, err := caller.LocalAddr()
	require.NoError(t, err)
	assert.NotZero(t, local.Port())

	accepted, _, err := ln.Accept()
	require.NoError(t, err)
	defer accepted.Close()

	_, err = caller.Send([]byte("hello"))
	require.NoError(t, err)
	buf := make([]byte, 64)
	n, err := accepted.Recv(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestLifecycleViolations(t *testing.T) {
	s := newTestSocket(t)

	var srtErr *Error
	err := s.Listen(1)
	require.ErrorAs(t, err, &srtErr)
	assert.Equal(t, KindInvalidOperation, srtErr.Kind)

	require.NoError(t, s.Bind("127.0.0.1:0"))
	err = s.Bind("127.0.0.1:0")
	require.ErrorAs(t, err, &srtErr)
	assert.Equal(t, KindInvalidOperation, srtErr.Kind)

	_, _, err = s.Accept()
	require.ErrorAs(t, err, &srtErr)
	assert.Equal(t, KindInvalidOperation, srtErr.Kind)

	// Connecting a listening socket is refused.
	require.NoError(t, s.Listen(1))
	err = s.Connect("127.0.0.1:1")
	require.ErrorAs(t, err, &srtErr)
	assert.Equal(t, KindInvalidOperation, srtErr.Kind)
}

func TestCloseConsumesHandle(t *testing.T) {
	s := newTestSocket(t)
	id := s.ID()
	assert.NotEqual(t, core.InvalidSocket, id)

	require.NoError(t, s.Close())
	assert.Equal(t, core.InvalidSocket, s.ID())
	assert.Equal(t, core.StatusNonExist, s.State())

	// Close is idempotent.
	require.NoError(t, s.Close())

	// Every operation on a closed handle fails the same way.
	var srtErr *Error
	_, err := s.Send([]byte("x"))
	require.ErrorAs(t, err, &srtErr)
	assert.Equal(t, KindInvalidOperation, srtErr.Kind)

	err = s.Bind("127.0.0.1:0")
	require.ErrorAs(t, err, &srtErr)
	assert.Equal(t, KindInvalidOperation, srtErr.Kind)

	_, err = GetOption[int32](s, core.OptMSS)
	require.ErrorAs(t, err, &srtErr)
	assert.Equal(t, KindInvalidOperation, srtErr.Kind)
}

func TestConnectionRefused(t *testing.T) {
	eng := engine.New()

	// Find a loopback port with no listener behind it.
	probe, err := NewWith(eng)
	require.NoError(t, err)
	require.NoError(t, probe.Bind("127.0.0.1:0"))
	require.NoError(t, probe.Listen(1))
	addr, err := probe.LocalAddr()
	require.NoError(t, err)
	require.NoError(t, probe.Close())

	s, err := NewWith(eng)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Bind("127.0.0.1:0"))

	connErr := s.Connect(addr.String())
	var srtErr *Error
	require.ErrorAs(t, connErr, &srtErr)
	assert.Equal(t, KindConnectionRejected, srtErr.Kind)
	assert.Equal(t, core.RejClose, srtErr.Reason)
	assert.Equal(t, core.RejClose, s.RejectReason())
	assert.Equal(t, core.StatusBroken, s.State())
}

func TestRecvTimeout(t *testing.T) {
	caller, _ := connectedPair(t)
	require.NoError(t, caller.SetReceiveTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := caller.Recv(make([]byte, 16))
	var srtErr *Error
	require.ErrorAs(t, err, &srtErr)
	assert.True(t, srtErr.Timeout(), "timeout errors must be detectable: %v", err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNonBlockingRecv(t *testing.T) {
	caller, _ := connectedPair(t)
	require.NoError(t, caller.SetReceiveBlocking(false))

	_, err := caller.Recv(make([]byte, 16))
	var srtErr *Error
	require.ErrorAs(t, err, &srtErr)
	assert.True(t, srtErr.Timeout(), "non-blocking miss should classify as retryable: %v", err)
}

func TestRendezvous(t *testing.T) {
	eng := engine.New()

	reserve := func() string {
		s, err := NewWith(eng)
		require.NoError(t, err)
		require.NoError(t, s.Bind("127.0.0.1:0"))
		require.NoError(t, s.Listen(1))
		addr, err := s.LocalAddr()
		require.NoError(t, err)
		require.NoError(t, s.Close())
		return addr.String()
	}
	addrA, addrB := reserve(), reserve()

	a, err := NewWith(eng)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewWith(eng)
	require.NoError(t, err)
	defer b.Close()

	errs := make(chan error, 2)
	go func() { errs <- a.Rendezvous(addrA, addrB) }()
	go func() { errs <- b.Rendezvous(addrB, addrA) }()
	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("rendezvous timed out")
		}
	}
	assert.Equal(t, core.StatusConnected, a.State())
	assert.Equal(t, core.StatusConnected, b.State())

	_, err = a.Send([]byte("rdv"))
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, err := b.Recv(buf)
	require.NoError(t, err)
	assert.Equal(t, "rdv", string(buf[:n]))
}

func TestStatsSnapshot(t *testing.T) {
	caller, accepted := connectedPair(t)

	// Fresh connection reports zero traffic.
	stats, err := caller.Bistats(false)
	require.NoError(t, err)
	assert.Zero(t, stats.PktSentTotal)
	assert.Zero(t, stats.ByteSentTotal)

	payload := []byte("0123456789")
	for i := 0; i < 3; i++ {
		_, err := caller.Send(payload)
		require.NoError(t, err)
	}
	buf := make([]byte, 64)
	total := 0
	for total < 30 {
		n, err := accepted.Recv(buf)
		require.NoError(t, err)
		total += n
	}

	stats, err = caller.Bistats(true)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.PktSentTotal)
	assert.EqualValues(t, 30, stats.ByteSentTotal)
	assert.EqualValues(t, 3, stats.PktSent)
	assert.GreaterOrEqual(t, stats.MsTimeStamp, int64(0))

	// The clearing snapshot resets intervals but not totals.
	stats, err = caller.Bistats(false)
	require.NoError(t, err)
	assert.Zero(t, stats.PktSent)
	assert.EqualValues(t, 3, stats.PktSentTotal)

	recvStats, err := accepted.Bistats(false)
	require.NoError(t, err)
	assert.EqualValues(t, 30, recvStats.ByteRecvTotal)
}

func TestStatsAfterClose(t *testing.T) {
	s := newTestSocket(t)
	require.NoError(t, s.Close())
	_, err := s.Bistats(false)
	var srtErr *Error
	require.ErrorAs(t, err, &srtErr)
	assert.Equal(t, KindInvalidOperation, srtErr.Kind)
}

func TestErrorValuesAreComparableViaErrorsAs(t *testing.T) {
	s := newTestSocket(t)
	err := s.Listen(1)
	require.Error(t, err)

	var srtErr *Error
	assert.True(t, errors.As(err, &srtErr))
	assert.NotEmpty(t, srtErr.Error())
	assert.NotEmpty(t, fmt.Sprintf("%v", err))
}
