// registry.go — per-engine socket table. Maps integer socket identifiers to
// their runtime state: lifecycle status, bound address, live listener or
// connection, raw option storage, reject diagnostic, and traffic counters.
package engine

import (
	"math/rand"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/irctrakz/gosrt/pkg/core"
)

// socketState holds the runtime information for one socket identifier.
// Lifecycle fields are guarded by mu; counters are atomic so send and recv
// can run concurrently with diagnostic reads.
type socketState struct {
	id int32

	mu       sync.Mutex
	status   core.SockStatus
	bound    netip.AddrPort
	hasBound bool
	listener *net.TCPListener
	conn     *net.TCPConn
	opts     map[core.SockOpt][]byte
	reject   core.RejectReason
	isn      int32
	created  time.Time

	counters counters
}

// counters is the per-socket traffic counter set feeding Bstats. Interval
// counters reset when a snapshot is taken with clearing enabled.
type counters struct {
	pktSentTotal  atomic.Int64
	pktRecvTotal  atomic.Int64
	byteSentTotal atomic.Int64
	byteRecvTotal atomic.Int64

	pktSent  atomic.Int64
	pktRecv  atomic.Int64
	byteSent atomic.Int64
	byteRecv atomic.Int64

	mu        sync.Mutex
	lastClear time.Time
}

func newSocketState() *socketState {
	return &socketState{
		status:  core.StatusInit,
		opts:    make(map[core.SockOpt][]byte),
		isn:     rand.Int31(),
		created: time.Now(),
	}
}

// cloneOpts copies the stored option bytes for a socket derived by accept.
func (st *socketState) cloneOpts() map[core.SockOpt][]byte {
	out := make(map[core.SockOpt][]byte, len(st.opts))
	for k, v := range st.opts {
		b := make([]byte, len(v))
		copy(b, v)
		out[k] = b
	}
	return out
}

type registry struct {
	mu      sync.RWMutex
	sockets map[int32]*socketState
	next    atomic.Int32
}

func newRegistry() *registry {
	r := &registry{sockets: make(map[int32]*socketState)}
	r.next.Store(100)
	return r
}

func (r *registry) register(st *socketState) int32 {
	id := r.next.Add(1)
	st.id = id
	r.mu.Lock()
	r.sockets[id] = st
	r.mu.Unlock()
	return id
}

func (r *registry) get(id int32) (*socketState, bool) {
	r.mu.RLock()
	st, ok := r.sockets[id]
	r.mu.RUnlock()
	return st, ok
}

func (r *registry) unregister(id int32) {
	r.mu.Lock()
	delete(r.sockets, id)
	r.mu.Unlock()
}
