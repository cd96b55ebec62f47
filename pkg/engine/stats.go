// stats.go — one-call statistics snapshot. Traffic counters accumulate on
// the data path; Bstats folds them with option-derived gauges into a
// core.TraceStats in a single pass and optionally resets the interval set.
package engine

import (
	"time"

	"github.com/irctrakz/gosrt/pkg/core"
)

func (c *counters) addSent(bytes int64) {
	c.pktSentTotal.Add(1)
	c.byteSentTotal.Add(bytes)
	c.pktSent.Add(1)
	c.byteSent.Add(bytes)
}

func (c *counters) addRecv(bytes int64) {
	c.pktRecvTotal.Add(1)
	c.byteRecvTotal.Add(bytes)
	c.pktRecv.Add(1)
	c.byteRecv.Add(bytes)
}

func (c *counters) clearIntervals(now time.Time) {
	c.pktSent.Store(0)
	c.pktRecv.Store(0)
	c.byteSent.Store(0)
	c.byteRecv.Store(0)
	c.mu.Lock()
	c.lastClear = now
	c.mu.Unlock()
}

// Bstats fills stats from the socket's counters and configuration. With
// clearIntervals set the interval counters restart from zero after the
// snapshot is taken.
func (e *Engine) Bstats(sock int32, stats *core.TraceStats, clearIntervals bool) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	if stats == nil {
		return e.fail(core.ErrInvParam)
	}

	now := time.Now()
	c := &st.counters

	c.mu.Lock()
	lastClear := c.lastClear
	c.mu.Unlock()

	st.mu.Lock()
	created := st.created
	if lastClear.IsZero() {
		lastClear = created
	}
	mss := st.optInt32(core.OptMSS, 1500)
	fc := st.optInt32(core.OptFC, 25600)
	sndBuf := st.optInt32(core.OptSndBuf, 12058624)
	rcvBuf := st.optInt32(core.OptRcvBuf, 12058624)
	maxBW := st.optInt64(core.OptMaxBW, -1)
	tsbPdDelay := st.optInt32(core.OptLatency, 120)
	rcvTsbPdDelay := st.optInt32(core.OptRcvLatency, tsbPdDelay)
	st.mu.Unlock()

	*stats = core.TraceStats{}
	stats.MsTimeStamp = now.Sub(created).Milliseconds()

	stats.PktSentTotal = c.pktSentTotal.Load()
	stats.PktRecvTotal = c.pktRecvTotal.Load()
	stats.ByteSentTotal = uint64(c.byteSentTotal.Load())
	stats.ByteRecvTotal = uint64(c.byteRecvTotal.Load())

	stats.PktSent = c.pktSent.Load()
	stats.PktRecv = c.pktRecv.Load()
	stats.ByteSent = uint64(c.byteSent.Load())
	stats.ByteRecv = uint64(c.byteRecv.Load())

	// Rates over the current interval. The reference engine reports Mbps.
	if elapsed := now.Sub(lastClear).Seconds(); elapsed > 0 {
		stats.MbpsSendRate = float64(stats.ByteSent) * 8 / 1e6 / elapsed
		stats.MbpsRecvRate = float64(stats.ByteRecv) * 8 / 1e6 / elapsed
	}

	// The emulated carrier never loses or retransmits, so every sent packet
	// is unique.
	stats.PktSentUniqueTotal = stats.PktSentTotal
	stats.PktRecvUniqueTotal = stats.PktRecvTotal
	stats.ByteSentUniqueTotal = stats.ByteSentTotal
	stats.ByteRecvUniqueTotal = stats.ByteRecvTotal
	stats.PktSentUnique = stats.PktSent
	stats.PktRecvUnique = stats.PktRecv
	stats.ByteSentUnique = stats.ByteSent
	stats.ByteRecvUnique = stats.ByteRecv

	stats.PktFlowWindow = fc
	stats.PktCongestionWindow = fc
	stats.ByteMSS = mss
	stats.ByteAvailSndBuf = sndBuf
	stats.ByteAvailRcvBuf = rcvBuf
	stats.MsSndTsbPdDelay = tsbPdDelay
	stats.MsRcvTsbPdDelay = rcvTsbPdDelay
	if maxBW > 0 {
		stats.MbpsMaxBW = float64(maxBW) * 8 / 1e6
	} else {
		stats.MbpsMaxBW = -1
	}

	if clearIntervals {
		c.clearIntervals(now)
	}
	return 0
}
