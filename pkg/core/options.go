package core

// SockOpt identifies one configurable socket option. The numeric values are
// the reference engine's and must not be reordered.
type SockOpt int32

const (
	OptMSS                SockOpt = 0  // maximum transfer unit, bytes
	OptSndSyn             SockOpt = 1  // blocking mode for send
	OptRcvSyn             SockOpt = 2  // blocking mode for recv and accept
	OptISN                SockOpt = 3  // initial sequence number (read-only)
	OptFC                 SockOpt = 4  // flight flag window size, packets
	OptSndBuf             SockOpt = 5  // send buffer size, bytes
	OptRcvBuf             SockOpt = 6  // receive buffer size, bytes
	OptLinger             SockOpt = 7  // close linger, on/off + seconds
	OptUDPSndBuf          SockOpt = 8  // carrier send buffer size, bytes
	OptUDPRcvBuf          SockOpt = 9  // carrier receive buffer size, bytes
	OptRendezvous         SockOpt = 12 // rendezvous connect mode
	OptSndTimeO           SockOpt = 13 // send timeout, ms (-1 = infinite)
	OptRcvTimeO           SockOpt = 14 // recv timeout, ms (-1 = infinite)
	OptReuseAddr          SockOpt = 15 // address reuse on bind
	OptMaxBW              SockOpt = 16 // maximum bandwidth, bytes/s
	OptState              SockOpt = 17 // socket state (read-only)
	OptEvent              SockOpt = 18 // readiness event mask (read-only)
	OptSndData            SockOpt = 19 // packets waiting in send buffer (read-only)
	OptRcvData            SockOpt = 20 // packets available to read (read-only)
	OptSender             SockOpt = 21 // one-way sender role
	OptTsbPdMode          SockOpt = 22 // timestamp-based packet delivery
	OptLatency            SockOpt = 23 // latency for both directions, ms
	OptInputBW            SockOpt = 24 // input rate estimate, bytes/s
	OptOHeadBW            SockOpt = 25 // recovery bandwidth overhead, percent
	OptPassphrase         SockOpt = 26 // key material secret (set-only)
	OptPBKeyLen           SockOpt = 27 // encryption key length, bytes
	OptKMState            SockOpt = 28 // key material state (read-only)
	OptIPTTL              SockOpt = 29 // IP time to live
	OptIPTOS              SockOpt = 30 // IP type of service
	OptTLPktDrop          SockOpt = 31 // too-late packet drop
	OptSndDropDelay       SockOpt = 32 // extra sender drop delay, ms
	OptNAKReport          SockOpt = 33 // periodic NAK reports
	OptVersion            SockOpt = 34 // engine version (read-only)
	OptPeerVersion        SockOpt = 35 // peer engine version (read-only)
	OptConnTimeO          SockOpt = 36 // connect timeout, ms
	OptDriftTracer        SockOpt = 37 // time drift tracer
	OptMinInputBW         SockOpt = 38 // minimum input rate estimate, bytes/s
	OptSndKMState         SockOpt = 40 // sending key material state (read-only)
	OptRcvKMState         SockOpt = 41 // receiving key material state (read-only)
	OptLossMaxTTL         SockOpt = 42 // reorder tolerance, packets
	OptRcvLatency         SockOpt = 43 // receive latency, ms
	OptPeerLatency        SockOpt = 44 // latency demanded from the peer, ms
	OptMinVersion         SockOpt = 45 // minimum peer version accepted
	OptStreamID           SockOpt = 46 // stream identification tag
	OptCongestion         SockOpt = 47 // congestion controller, by name
	OptMessageAPI         SockOpt = 48 // message boundary mode
	OptPayloadSize        SockOpt = 49 // maximum payload size, bytes
	OptTransType          SockOpt = 50 // transmission type preset
	OptKMRefreshRate      SockOpt = 51 // key refresh period, packets
	OptKMPreAnnounce      SockOpt = 52 // key switchover announce lead, packets
	OptEnforcedEncryption SockOpt = 53 // reject mismatched passphrase setups
	OptIPv6Only           SockOpt = 54 // IPv6 socket accepts only v6 peers
	OptPeerIdleTimeO      SockOpt = 55 // peer idle timeout, ms
	OptBindToDevice       SockOpt = 56 // bind to a network device
	OptPacketFilter       SockOpt = 60 // packet filter configuration string
	OptRetransmitAlgo     SockOpt = 61 // retransmission algorithm selector
)

// MaxStringOptLen is the engine's cap on string-valued options (stream id,
// passphrase, congestion controller name, packet filter, device name).
const MaxStringOptLen = 512
