// accessors.go — typed per-option accessors over the generic registry.
// Durations are expressed as time.Duration and converted to the engine's
// millisecond convention here; sizes are plain ints.
package srt

import (
	"time"

	"github.com/irctrakz/gosrt/pkg/core"
)

func msOpt(d time.Duration) int32 { return int32(d.Milliseconds()) }

func (s *Socket) getDuration(opt core.SockOpt) (time.Duration, error) {
	v, err := GetOption[int32](s, opt)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Millisecond, nil
}

// MSS reports the maximum segment size in bytes.
func (s *Socket) MSS() (int32, error) { return GetOption[int32](s, core.OptMSS) }

// SetMSS sets the maximum segment size. Settable only before bind.
func (s *Socket) SetMSS(v int32) error { return SetOption(s, core.OptMSS, v) }

// SendBlocking reports whether Send waits for queue space.
func (s *Socket) SendBlocking() (bool, error) { return GetOption[bool](s, core.OptSndSyn) }

// SetSendBlocking switches Send between blocking and immediate-failure mode.
func (s *Socket) SetSendBlocking(v bool) error { return SetOption(s, core.OptSndSyn, v) }

// ReceiveBlocking reports whether Recv and Accept wait for data.
func (s *Socket) ReceiveBlocking() (bool, error) { return GetOption[bool](s, core.OptRcvSyn) }

// SetReceiveBlocking switches Recv and Accept between blocking and
// immediate-failure mode.
func (s *Socket) SetReceiveBlocking(v bool) error { return SetOption(s, core.OptRcvSyn, v) }

// InitialSequenceNumber reports the sequence number the connection started
// with.
func (s *Socket) InitialSequenceNumber() (int32, error) { return GetOption[int32](s, core.OptISN) }

// FlowControlWindow reports the maximum number of unacknowledged packets.
func (s *Socket) FlowControlWindow() (int32, error) { return GetOption[int32](s, core.OptFC) }

// SetFlowControlWindow caps unacknowledged packets in flight. Pre-bind only.
func (s *Socket) SetFlowControlWindow(v int32) error { return SetOption(s, core.OptFC, v) }

// SendBuffer reports the send buffer size in bytes.
func (s *Socket) SendBuffer() (int32, error) { return GetOption[int32](s, core.OptSndBuf) }

// SetSendBuffer sets the send buffer size. Pre-bind only.
func (s *Socket) SetSendBuffer(v int32) error { return SetOption(s, core.OptSndBuf, v) }

// ReceiveBuffer reports the receive buffer size in bytes.
func (s *Socket) ReceiveBuffer() (int32, error) { return GetOption[int32](s, core.OptRcvBuf) }

// SetReceiveBuffer sets the receive buffer size. Pre-bind only.
func (s *Socket) SetReceiveBuffer(v int32) error { return SetOption(s, core.OptRcvBuf, v) }

// UDPSendBuffer reports the carrier-level send buffer size.
func (s *Socket) UDPSendBuffer() (int32, error) { return GetOption[int32](s, core.OptUDPSndBuf) }

// SetUDPSendBuffer sets the carrier-level send buffer size. Pre-bind only.
func (s *Socket) SetUDPSendBuffer(v int32) error { return SetOption(s, core.OptUDPSndBuf, v) }

// UDPReceiveBuffer reports the carrier-level receive buffer size.
func (s *Socket) UDPReceiveBuffer() (int32, error) { return GetOption[int32](s, core.OptUDPRcvBuf) }

// SetUDPReceiveBuffer sets the carrier-level receive buffer size. Pre-bind
// only.
func (s *Socket) SetUDPReceiveBuffer(v int32) error { return SetOption(s, core.OptUDPRcvBuf, v) }

// Linger reports how long Close lingers to flush pending data; zero means
// linger is off.
func (s *Socket) Linger() (time.Duration, error) {
	raw, err := s.getRawOption(core.OptLinger, make([]byte, core.NativeLingerLen))
	if err != nil {
		return 0, err
	}
	on, secs := core.GetLinger(raw)
	if !on {
		return 0, nil
	}
	return time.Duration(secs) * time.Second, nil
}

// SetLinger makes Close linger for d to flush pending data; zero disables.
func (s *Socket) SetLinger(d time.Duration) error {
	raw := make([]byte, core.NativeLingerLen)
	core.PutLinger(raw, d > 0, int32(d/time.Second))
	return s.setRawOption(core.OptLinger, raw)
}

// RendezvousMode reports whether the socket connects in rendezvous mode.
func (s *Socket) RendezvousMode() (bool, error) { return GetOption[bool](s, core.OptRendezvous) }

// SetRendezvousMode enables symmetric connection setup. Pre-bind only.
func (s *Socket) SetRendezvousMode(v bool) error { return SetOption(s, core.OptRendezvous, v) }

// SendTimeout reports how long a blocking Send waits; negative means forever.
func (s *Socket) SendTimeout() (time.Duration, error) { return s.getDuration(core.OptSndTimeO) }

// SetSendTimeout bounds how long a blocking Send waits.
func (s *Socket) SetSendTimeout(d time.Duration) error {
	return SetOption(s, core.OptSndTimeO, msOpt(d))
}

// ReceiveTimeout reports how long a blocking Recv waits; negative means
// forever.
func (s *Socket) ReceiveTimeout() (time.Duration, error) { return s.getDuration(core.OptRcvTimeO) }

// SetReceiveTimeout bounds how long a blocking Recv waits.
func (s *Socket) SetReceiveTimeout(d time.Duration) error {
	return SetOption(s, core.OptRcvTimeO, msOpt(d))
}

// ReuseAddress reports whether the local address may be shared.
func (s *Socket) ReuseAddress() (bool, error) { return GetOption[bool](s, core.OptReuseAddr) }

// SetReuseAddress allows binding to an address already in use. Pre-bind only.
func (s *Socket) SetReuseAddress(v bool) error { return SetOption(s, core.OptReuseAddr, v) }

// MaxBandwidth reports the output cap in bytes per second; -1 is unlimited.
func (s *Socket) MaxBandwidth() (int64, error) { return GetOption[int64](s, core.OptMaxBW) }

// SetMaxBandwidth caps output bandwidth in bytes per second.
func (s *Socket) SetMaxBandwidth(v int64) error { return SetOption(s, core.OptMaxBW, v) }

// TimestampBasedDelivery reports whether packets are delivered on their
// source timestamps.
func (s *Socket) TimestampBasedDelivery() (bool, error) { return GetOption[bool](s, core.OptTsbPdMode) }

// SetTimestampBasedDelivery toggles timestamp-based delivery. Pre-connect
// only.
func (s *Socket) SetTimestampBasedDelivery(v bool) error {
	return SetOption(s, core.OptTsbPdMode, v)
}

// Latency reports the delivery delay applied to received packets.
func (s *Socket) Latency() (time.Duration, error) { return s.getDuration(core.OptLatency) }

// SetLatency sets both send and receive delivery delay. Pre-connect only.
func (s *Socket) SetLatency(d time.Duration) error {
	return SetOption(s, core.OptLatency, msOpt(d))
}

// ReceiveLatency reports the receive-side delivery delay.
func (s *Socket) ReceiveLatency() (time.Duration, error) { return s.getDuration(core.OptRcvLatency) }

// SetReceiveLatency sets the receive-side delivery delay. Pre-connect only.
func (s *Socket) SetReceiveLatency(d time.Duration) error {
	return SetOption(s, core.OptRcvLatency, msOpt(d))
}

// PeerLatency reports the minimum delay the peer must apply.
func (s *Socket) PeerLatency() (time.Duration, error) { return s.getDuration(core.OptPeerLatency) }

// SetPeerLatency sets the minimum delay the peer must apply. Pre-connect
// only.
func (s *Socket) SetPeerLatency(d time.Duration) error {
	return SetOption(s, core.OptPeerLatency, msOpt(d))
}

// InputBandwidth reports the declared input rate in bytes per second.
func (s *Socket) InputBandwidth() (int64, error) { return GetOption[int64](s, core.OptInputBW) }

// SetInputBandwidth declares the input rate for bandwidth estimation.
func (s *Socket) SetInputBandwidth(v int64) error { return SetOption(s, core.OptInputBW, v) }

// MinInputBandwidth reports the floor of the estimated input rate.
func (s *Socket) MinInputBandwidth() (int64, error) { return GetOption[int64](s, core.OptMinInputBW) }

// SetMinInputBandwidth sets the floor of the estimated input rate.
func (s *Socket) SetMinInputBandwidth(v int64) error { return SetOption(s, core.OptMinInputBW, v) }

// OverheadBandwidth reports the retransmission overhead allowance percent.
func (s *Socket) OverheadBandwidth() (int32, error) { return GetOption[int32](s, core.OptOHeadBW) }

// SetOverheadBandwidth sets the retransmission overhead allowance percent.
func (s *Socket) SetOverheadBandwidth(v int32) error { return SetOption(s, core.OptOHeadBW, v) }

// SetPassphrase sets the connection secret. Write-only; the engine never
// returns it. Pre-connect only.
func (s *Socket) SetPassphrase(v string) error { return SetOption(s, core.OptPassphrase, v) }

// KeyLength reports the encryption key length in bytes.
func (s *Socket) KeyLength() (int32, error) { return GetOption[int32](s, core.OptPBKeyLen) }

// SetKeyLength sets the encryption key length in bytes (0, 16, 24 or 32).
// Pre-connect only.
func (s *Socket) SetKeyLength(v int32) error { return SetOption(s, core.OptPBKeyLen, v) }

func (s *Socket) kmOpt(opt core.SockOpt) (core.KMState, error) {
	v, err := GetOption[int32](s, opt)
	if err != nil {
		return core.KMUnsecured, err
	}
	return core.KMState(v), nil
}

// KeyMaterialState reports the connection's key material state.
func (s *Socket) KeyMaterialState() (core.KMState, error) { return s.kmOpt(core.OptKMState) }

// SendKeyMaterialState reports the key material state on the send side.
func (s *Socket) SendKeyMaterialState() (core.KMState, error) { return s.kmOpt(core.OptSndKMState) }

// ReceiveKeyMaterialState reports the key material state on the receive
// side.
func (s *Socket) ReceiveKeyMaterialState() (core.KMState, error) { return s.kmOpt(core.OptRcvKMState) }

// TimeToLive reports the carrier packet TTL.
func (s *Socket) TimeToLive() (int32, error) { return GetOption[int32](s, core.OptIPTTL) }

// SetTimeToLive sets the carrier packet TTL. Pre-bind only.
func (s *Socket) SetTimeToLive(v int32) error { return SetOption(s, core.OptIPTTL, v) }

// TypeOfService reports the carrier packet TOS byte.
func (s *Socket) TypeOfService() (int32, error) { return GetOption[int32](s, core.OptIPTOS) }

// SetTypeOfService sets the carrier packet TOS byte. Pre-bind only.
func (s *Socket) SetTypeOfService(v int32) error { return SetOption(s, core.OptIPTOS, v) }

// TooLatePacketDrop reports whether packets that missed their delivery time
// are dropped.
func (s *Socket) TooLatePacketDrop() (bool, error) { return GetOption[bool](s, core.OptTLPktDrop) }

// SetTooLatePacketDrop toggles dropping of packets past their delivery time.
// Pre-connect only.
func (s *Socket) SetTooLatePacketDrop(v bool) error { return SetOption(s, core.OptTLPktDrop, v) }

// SendDropDelay reports the extra delay before a too-late packet is dropped
// from the send queue.
func (s *Socket) SendDropDelay() (time.Duration, error) { return s.getDuration(core.OptSndDropDelay) }

// SetSendDropDelay sets the extra delay before too-late send-queue drops.
func (s *Socket) SetSendDropDelay(d time.Duration) error {
	return SetOption(s, core.OptSndDropDelay, msOpt(d))
}

// PeriodicNAK reports whether loss reports are repeated periodically.
func (s *Socket) PeriodicNAK() (bool, error) { return GetOption[bool](s, core.OptNAKReport) }

// SetPeriodicNAK toggles periodic loss reports. Pre-connect only.
func (s *Socket) SetPeriodicNAK(v bool) error { return SetOption(s, core.OptNAKReport, v) }

// Event reports the readiness event mask: which of read, write and error
// conditions are currently pending on the socket.
func (s *Socket) Event() (int32, error) { return GetOption[int32](s, core.OptEvent) }

// SendPending reports the number of packets waiting in the send buffer.
func (s *Socket) SendPending() (int32, error) { return GetOption[int32](s, core.OptSndData) }

// ReceivePending reports the number of packets available to read.
func (s *Socket) ReceivePending() (int32, error) { return GetOption[int32](s, core.OptRcvData) }

// Version reports the local engine version.
func (s *Socket) Version() (int32, error) { return GetOption[int32](s, core.OptVersion) }

// PeerVersion reports the connected peer's engine version, zero before a
// connection exists.
func (s *Socket) PeerVersion() (int32, error) { return GetOption[int32](s, core.OptPeerVersion) }

// ConnectTimeout reports how long Connect waits for the handshake.
func (s *Socket) ConnectTimeout() (time.Duration, error) { return s.getDuration(core.OptConnTimeO) }

// SetConnectTimeout bounds the connection handshake. Pre-connect only.
func (s *Socket) SetConnectTimeout(d time.Duration) error {
	return SetOption(s, core.OptConnTimeO, msOpt(d))
}

// DriftTracer reports whether clock drift tracing is active.
func (s *Socket) DriftTracer() (bool, error) { return GetOption[bool](s, core.OptDriftTracer) }

// SetDriftTracer toggles clock drift tracing.
func (s *Socket) SetDriftTracer(v bool) error { return SetOption(s, core.OptDriftTracer, v) }

// ReorderTolerance reports the maximum reorder distance before a loss report
// fires.
func (s *Socket) ReorderTolerance() (int32, error) { return GetOption[int32](s, core.OptLossMaxTTL) }

// SetReorderTolerance sets the maximum reorder distance before a loss report
// fires.
func (s *Socket) SetReorderTolerance(v int32) error { return SetOption(s, core.OptLossMaxTTL, v) }

// MinVersion reports the minimum engine version accepted from a peer.
func (s *Socket) MinVersion() (int32, error) { return GetOption[int32](s, core.OptMinVersion) }

// SetMinVersion sets the minimum engine version accepted from a peer.
// Pre-connect only.
func (s *Socket) SetMinVersion(v int32) error { return SetOption(s, core.OptMinVersion, v) }

// StreamID reports the stream identifier exchanged during the handshake.
func (s *Socket) StreamID() (string, error) { return GetOption[string](s, core.OptStreamID) }

// SetStreamID sets the stream identifier, at most 512 bytes. Pre-connect
// only.
func (s *Socket) SetStreamID(v string) error { return SetOption(s, core.OptStreamID, v) }

// CongestionController reports the active congestion controller name.
func (s *Socket) CongestionController() (string, error) {
	return GetOption[string](s, core.OptCongestion)
}

// SetCongestionController selects the congestion controller, "live" or
// "file". Pre-connect only.
func (s *Socket) SetCongestionController(v string) error {
	return SetOption(s, core.OptCongestion, v)
}

// MessageAPI reports whether the socket transfers discrete messages rather
// than a byte stream.
func (s *Socket) MessageAPI() (bool, error) { return GetOption[bool](s, core.OptMessageAPI) }

// SetMessageAPI switches between message and byte-stream transfer.
// Pre-connect only.
func (s *Socket) SetMessageAPI(v bool) error { return SetOption(s, core.OptMessageAPI, v) }

// PayloadSize reports the maximum message payload in bytes.
func (s *Socket) PayloadSize() (int32, error) { return GetOption[int32](s, core.OptPayloadSize) }

// SetPayloadSize sets the maximum message payload. Pre-connect only.
func (s *Socket) SetPayloadSize(v int32) error { return SetOption(s, core.OptPayloadSize, v) }

// SetTransmissionType applies the live or file preset. Pre-connect only.
func (s *Socket) SetTransmissionType(t core.TransType) error {
	return SetOption(s, core.OptTransType, int32(t))
}

// KMRefreshRate reports how many packets a key encrypts before rotation.
func (s *Socket) KMRefreshRate() (int32, error) { return GetOption[int32](s, core.OptKMRefreshRate) }

// SetKMRefreshRate sets the key rotation interval in packets. Pre-connect
// only.
func (s *Socket) SetKMRefreshRate(v int32) error { return SetOption(s, core.OptKMRefreshRate, v) }

// KMPreAnnounce reports how many packets before rotation the next key is
// exchanged.
func (s *Socket) KMPreAnnounce() (int32, error) { return GetOption[int32](s, core.OptKMPreAnnounce) }

// SetKMPreAnnounce sets the key pre-announce window in packets. Pre-connect
// only.
func (s *Socket) SetKMPreAnnounce(v int32) error { return SetOption(s, core.OptKMPreAnnounce, v) }

// EnforcedEncryption reports whether both sides must agree on a passphrase.
func (s *Socket) EnforcedEncryption() (bool, error) {
	return GetOption[bool](s, core.OptEnforcedEncryption)
}

// SetEnforcedEncryption requires matching passphrases on both sides.
// Pre-connect only.
func (s *Socket) SetEnforcedEncryption(v bool) error {
	return SetOption(s, core.OptEnforcedEncryption, v)
}

// PeerIdleTimeout reports how long a silent peer is tolerated.
func (s *Socket) PeerIdleTimeout() (time.Duration, error) {
	return s.getDuration(core.OptPeerIdleTimeO)
}

// SetPeerIdleTimeout bounds how long a silent peer is tolerated. Pre-connect
// only.
func (s *Socket) SetPeerIdleTimeout(d time.Duration) error {
	return SetOption(s, core.OptPeerIdleTimeO, msOpt(d))
}

// BindDevice reports the network device the socket binds to.
func (s *Socket) BindDevice() (string, error) { return GetOption[string](s, core.OptBindToDevice) }

// SetBindDevice binds the socket to a network device. Pre-bind only.
func (s *Socket) SetBindDevice(v string) error { return SetOption(s, core.OptBindToDevice, v) }

// PacketFilter reports the packet filter configuration string.
func (s *Socket) PacketFilter() (string, error) { return GetOption[string](s, core.OptPacketFilter) }

// SetPacketFilter sets the packet filter configuration. Pre-connect only.
func (s *Socket) SetPacketFilter(v string) error { return SetOption(s, core.OptPacketFilter, v) }

// RetransmissionAlgorithm reports the selected retransmission algorithm.
func (s *Socket) RetransmissionAlgorithm() (int32, error) {
	return GetOption[int32](s, core.OptRetransmitAlgo)
}

// SetRetransmissionAlgorithm selects the retransmission algorithm.
// Pre-connect only.
func (s *Socket) SetRetransmissionAlgorithm(v int32) error {
	return SetOption(s, core.OptRetransmitAlgo, v)
}
