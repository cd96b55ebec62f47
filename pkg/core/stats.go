package core

// TraceStats is the fixed-layout statistics aggregate filled by a single
// Bstats call. Fields ending in Total accumulate since the socket was
// created; the bare variants cover the interval since the last snapshot
// taken with clearIntervals set. The value is a plain snapshot: once
// returned it involves no further engine interaction and must not be
// treated as live.
type TraceStats struct {
	// MsTimeStamp is the time since the socket was created, in ms.
	MsTimeStamp int64

	// Cumulative counters.
	PktSentTotal         int64
	PktRecvTotal         int64
	PktSndLossTotal      int32
	PktRcvLossTotal      int32
	PktRetransTotal      int32
	PktSentACKTotal      int32
	PktRecvACKTotal      int32
	PktSentNAKTotal      int32
	PktRecvNAKTotal      int32
	UsSndDurationTotal   int64
	PktSndDropTotal      int32
	PktRcvDropTotal      int32
	PktRcvUndecryptTotal int32
	ByteSentTotal        uint64
	ByteRecvTotal        uint64
	ByteRcvLossTotal     uint64
	ByteRetransTotal     uint64
	ByteSndDropTotal     uint64
	ByteRcvDropTotal     uint64
	ByteRcvUndecryptTotal uint64

	// Interval counters, reset when a snapshot is taken with clearing.
	PktSent              int64
	PktRecv              int64
	PktSndLoss           int32
	PktRcvLoss           int32
	PktRetrans           int32
	PktRcvRetrans        int32
	PktSentACK           int32
	PktRecvACK           int32
	PktSentNAK           int32
	PktRecvNAK           int32
	MbpsSendRate         float64
	MbpsRecvRate         float64
	UsSndDuration        int64
	PktReorderDistance   int32
	PktRcvAvgBelatedTime float64
	PktRcvBelated        int64
	PktSndDrop           int32
	PktRcvDrop           int32
	PktRcvUndecrypt      int32
	ByteSent             uint64
	ByteRecv             uint64
	ByteRcvLoss          uint64
	ByteRetrans          uint64
	ByteSndDrop          uint64
	ByteRcvDrop          uint64
	ByteRcvUndecrypt     uint64

	// Instantaneous gauges.
	UsPktSndPeriod      float64
	PktFlowWindow       int32
	PktCongestionWindow int32
	PktFlightSize       int32
	MsRTT               float64
	MbpsBandwidth       float64
	ByteAvailSndBuf     int32
	ByteAvailRcvBuf     int32
	MbpsMaxBW           float64
	ByteMSS             int32
	PktSndBuf           int32
	ByteSndBuf          int32
	MsSndBuf            int32
	MsSndTsbPdDelay     int32
	PktRcvBuf           int32
	ByteRcvBuf          int32
	MsRcvBuf            int32
	MsRcvTsbPdDelay     int32

	// Packet filter counters.
	PktSndFilterExtraTotal  int32
	PktRcvFilterExtraTotal  int32
	PktRcvFilterSupplyTotal int32
	PktRcvFilterLossTotal   int32
	PktSndFilterExtra       int32
	PktRcvFilterExtra       int32
	PktRcvFilterSupply      int32
	PktRcvFilterLoss        int32
	PktReorderTolerance     int32

	// Unique payload counters (retransmissions excluded).
	PktSentUniqueTotal  int64
	PktRecvUniqueTotal  int64
	ByteSentUniqueTotal uint64
	ByteRecvUniqueTotal uint64
	PktSentUnique       int64
	PktRecvUnique       int64
	ByteSentUnique      uint64
	ByteRecvUnique      uint64
}
