// options.go — raw option marshaling on the engine side. Options arrive and
// leave as byte buffers typed only by width; the engine validates the width
// against its own table, stores the raw bytes per socket, and applies the
// ones with a live host-stack counterpart (buffer sizes, TOS, TTL) when a
// connection exists.
package engine

import (
	"encoding/binary"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/irctrakz/gosrt/pkg/core"
)

const (
	defaultConnTimeoutMS = 3000
	defaultRdvTimeoutMS  = 10000
)

// Readiness event bits reported through OptEvent.
const (
	eventIn  = 0x1
	eventOut = 0x4
	eventErr = 0x8
)

type optKind int

const (
	kindBool optKind = iota
	kindInt32
	kindInt64
	kindString
	kindLinger
)

type optMeta struct {
	kind     optKind
	preBind  bool // settable only before bind
	preConn  bool // settable only before a connection is in progress
	readOnly bool
	setOnly  bool
}

func (m optMeta) width() int {
	switch m.kind {
	case kindBool:
		return core.NativeBoolLen
	case kindInt32:
		return 4
	case kindInt64:
		return 8
	case kindLinger:
		return core.NativeLingerLen
	}
	return -1
}

var optTable = map[core.SockOpt]optMeta{
	core.OptMSS:                {kind: kindInt32, preBind: true},
	core.OptSndSyn:             {kind: kindBool},
	core.OptRcvSyn:             {kind: kindBool},
	core.OptISN:                {kind: kindInt32, readOnly: true},
	core.OptFC:                 {kind: kindInt32, preBind: true},
	core.OptSndBuf:             {kind: kindInt32, preBind: true},
	core.OptRcvBuf:             {kind: kindInt32, preBind: true},
	core.OptLinger:             {kind: kindLinger},
	core.OptUDPSndBuf:          {kind: kindInt32, preBind: true},
	core.OptUDPRcvBuf:          {kind: kindInt32, preBind: true},
	core.OptRendezvous:         {kind: kindBool, preBind: true},
	core.OptSndTimeO:           {kind: kindInt32},
	core.OptRcvTimeO:           {kind: kindInt32},
	core.OptReuseAddr:          {kind: kindBool, preBind: true},
	core.OptMaxBW:              {kind: kindInt64},
	core.OptState:              {kind: kindInt32, readOnly: true},
	core.OptEvent:              {kind: kindInt32, readOnly: true},
	core.OptSndData:            {kind: kindInt32, readOnly: true},
	core.OptRcvData:            {kind: kindInt32, readOnly: true},
	core.OptSender:             {kind: kindBool, preConn: true},
	core.OptTsbPdMode:          {kind: kindBool, preConn: true},
	core.OptLatency:            {kind: kindInt32, preConn: true},
	core.OptInputBW:            {kind: kindInt64},
	core.OptOHeadBW:            {kind: kindInt32},
	core.OptPassphrase:         {kind: kindString, preConn: true, setOnly: true},
	core.OptPBKeyLen:           {kind: kindInt32, preConn: true},
	core.OptKMState:            {kind: kindInt32, readOnly: true},
	core.OptIPTTL:              {kind: kindInt32, preBind: true},
	core.OptIPTOS:              {kind: kindInt32, preBind: true},
	core.OptTLPktDrop:          {kind: kindBool, preConn: true},
	core.OptSndDropDelay:       {kind: kindInt32},
	core.OptNAKReport:          {kind: kindBool, preConn: true},
	core.OptVersion:            {kind: kindInt32, readOnly: true},
	core.OptPeerVersion:        {kind: kindInt32, readOnly: true},
	core.OptConnTimeO:          {kind: kindInt32, preConn: true},
	core.OptDriftTracer:        {kind: kindBool},
	core.OptMinInputBW:         {kind: kindInt64},
	core.OptSndKMState:         {kind: kindInt32, readOnly: true},
	core.OptRcvKMState:         {kind: kindInt32, readOnly: true},
	core.OptLossMaxTTL:         {kind: kindInt32},
	core.OptRcvLatency:         {kind: kindInt32, preConn: true},
	core.OptPeerLatency:        {kind: kindInt32, preConn: true},
	core.OptMinVersion:         {kind: kindInt32, preConn: true},
	core.OptStreamID:           {kind: kindString, preConn: true},
	core.OptCongestion:         {kind: kindString, preConn: true},
	core.OptMessageAPI:         {kind: kindBool, preConn: true},
	core.OptPayloadSize:        {kind: kindInt32, preConn: true},
	core.OptTransType:          {kind: kindInt32, preConn: true, setOnly: true},
	core.OptKMRefreshRate:      {kind: kindInt32, preConn: true},
	core.OptKMPreAnnounce:      {kind: kindInt32, preConn: true},
	core.OptEnforcedEncryption: {kind: kindBool, preConn: true},
	core.OptIPv6Only:           {kind: kindInt32, preBind: true},
	core.OptPeerIdleTimeO:      {kind: kindInt32, preConn: true},
	core.OptBindToDevice:       {kind: kindString, preBind: true},
	core.OptPacketFilter:       {kind: kindString, preConn: true},
	core.OptRetransmitAlgo:     {kind: kindInt32, preConn: true},
}

// SetSockFlag validates the value width against the option table, enforces
// phase restrictions, stores the raw bytes, and applies live options.
func (e *Engine) SetSockFlag(sock int32, opt core.SockOpt, val []byte) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	meta, ok := optTable[opt]
	if !ok {
		return e.fail(core.ErrInvParam)
	}
	if meta.readOnly {
		return e.fail(core.ErrInvOp)
	}
	if w := meta.width(); w >= 0 {
		if len(val) != w {
			return e.fail(core.ErrInvParam)
		}
	} else if len(val) > core.MaxStringOptLen {
		return e.fail(core.ErrInvParam)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if meta.preBind && st.status != core.StatusInit {
		return e.fail(core.ErrBoundSock)
	}
	if meta.preConn {
		switch st.status {
		case core.StatusInit, core.StatusOpened, core.StatusListening:
		default:
			return e.fail(core.ErrConnSock)
		}
	}
	switch opt {
	case core.OptCongestion:
		if s := string(val); s != "live" && s != "file" {
			return e.fail(core.ErrInvParam)
		}
	case core.OptTransType:
		switch core.TransType(decInt32(val)) {
		case core.TransLive, core.TransFile:
		default:
			return e.fail(core.ErrInvParam)
		}
	}

	raw := make([]byte, len(val))
	copy(raw, val)
	st.opts[opt] = raw
	st.applyLiveOption(opt, raw)
	return 0
}

// GetSockFlag writes the current option value into val and its length into
// valLen. Values never stored report engine defaults; diagnostic options are
// computed from live state.
func (e *Engine) GetSockFlag(sock int32, opt core.SockOpt, val []byte, valLen *int32) int32 {
	st, ok := e.reg.get(sock)
	if !ok {
		return e.fail(core.ErrInvSock)
	}
	meta, ok := optTable[opt]
	if !ok {
		return e.fail(core.ErrInvParam)
	}
	if meta.setOnly {
		return e.fail(core.ErrInvOp)
	}

	st.mu.Lock()
	out := st.currentValue(opt, meta)
	st.mu.Unlock()

	if len(val) < len(out) {
		return e.fail(core.ErrInvParam)
	}
	copy(val, out)
	if valLen != nil {
		*valLen = int32(len(out))
	}
	return 0
}

// currentValue resolves an option to its wire bytes. Caller holds st.mu.
func (st *socketState) currentValue(opt core.SockOpt, meta optMeta) []byte {
	switch opt {
	case core.OptState:
		return encInt32(int32(st.status))
	case core.OptEvent:
		return encInt32(st.eventMask())
	case core.OptSndData, core.OptRcvData:
		return encInt32(0)
	case core.OptVersion:
		return encInt32(core.EngineVersion)
	case core.OptPeerVersion:
		if st.status == core.StatusConnected {
			return encInt32(core.EngineVersion)
		}
		return encInt32(0)
	case core.OptISN:
		return encInt32(st.isn)
	case core.OptKMState, core.OptSndKMState, core.OptRcvKMState:
		return encInt32(int32(st.kmState()))
	}
	if raw, ok := st.opts[opt]; ok {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out
	}
	return st.defaultValue(opt, meta)
}

func (st *socketState) eventMask() int32 {
	switch st.status {
	case core.StatusConnected:
		return eventIn | eventOut
	case core.StatusBroken:
		return eventErr
	}
	return 0
}

// kmState derives the key-material state from the configured secret and
// connection progress. Caller holds st.mu.
func (st *socketState) kmState() core.KMState {
	if len(st.opts[core.OptPassphrase]) == 0 {
		return core.KMUnsecured
	}
	switch st.status {
	case core.StatusConnected:
		return core.KMSecured
	case core.StatusConnecting:
		return core.KMSecuring
	}
	return core.KMUnsecured
}

// defaultValue encodes the engine default for options never explicitly set.
func (st *socketState) defaultValue(opt core.SockOpt, meta optMeta) []byte {
	switch opt {
	case core.OptMSS:
		return encInt32(1500)
	case core.OptFC:
		return encInt32(25600)
	case core.OptSndBuf, core.OptRcvBuf, core.OptUDPRcvBuf:
		return encInt32(12058624)
	case core.OptUDPSndBuf:
		return encInt32(1048576)
	case core.OptSndTimeO, core.OptRcvTimeO:
		return encInt32(-1)
	case core.OptMaxBW:
		return encInt64(-1)
	case core.OptLatency, core.OptRcvLatency:
		return encInt32(120)
	case core.OptOHeadBW:
		return encInt32(25)
	case core.OptIPTTL:
		return encInt32(64)
	case core.OptConnTimeO:
		return encInt32(defaultConnTimeoutMS)
	case core.OptPeerIdleTimeO:
		return encInt32(5000)
	case core.OptPayloadSize:
		return encInt32(1316)
	case core.OptKMRefreshRate:
		return encInt32(0x1000000)
	case core.OptKMPreAnnounce:
		return encInt32(0x1000)
	case core.OptCongestion:
		return []byte("live")
	case core.OptRetransmitAlgo:
		return encInt32(1)
	case core.OptSndSyn, core.OptRcvSyn, core.OptTsbPdMode, core.OptTLPktDrop,
		core.OptNAKReport, core.OptDriftTracer, core.OptMessageAPI,
		core.OptEnforcedEncryption, core.OptReuseAddr:
		return encBool(true)
	}
	switch meta.kind {
	case kindBool:
		return encBool(false)
	case kindInt32:
		return encInt32(0)
	case kindInt64:
		return encInt64(0)
	case kindLinger:
		buf := make([]byte, core.NativeLingerLen)
		core.PutLinger(buf, false, 0)
		return buf
	}
	return []byte{}
}

// applyLiveOption pushes an option with a host-stack counterpart onto the
// live connection. Caller holds st.mu.
func (st *socketState) applyLiveOption(opt core.SockOpt, raw []byte) {
	if st.conn == nil {
		return
	}
	switch opt {
	case core.OptSndBuf, core.OptUDPSndBuf:
		st.conn.SetWriteBuffer(int(decInt32(raw)))
	case core.OptRcvBuf, core.OptUDPRcvBuf:
		st.conn.SetReadBuffer(int(decInt32(raw)))
	case core.OptIPTOS, core.OptIPTTL:
		st.applyTosTTL()
	case core.OptLinger:
		on, secs := core.GetLinger(raw)
		if on {
			st.conn.SetLinger(int(secs))
		} else {
			st.conn.SetLinger(-1)
		}
	}
}

// applyConnOptions pushes all stored options with live counterparts onto a
// freshly established connection. Caller holds st.mu.
func (st *socketState) applyConnOptions() {
	for opt, raw := range st.opts {
		st.applyLiveOption(opt, raw)
	}
}

// applyTosTTL applies stored IPTOS/IPTTL through the address-family specific
// control interface. Caller holds st.mu.
func (st *socketState) applyTosTTL() {
	tos, hasTOS := st.opts[core.OptIPTOS]
	ttl, hasTTL := st.opts[core.OptIPTTL]
	if !hasTOS && !hasTTL {
		return
	}
	if st.bound.Addr().Is4() || st.bound.Addr().Is4In6() || !st.hasBound {
		c := ipv4.NewConn(st.conn)
		if hasTOS {
			c.SetTOS(int(decInt32(tos)))
		}
		if hasTTL {
			c.SetTTL(int(decInt32(ttl)))
		}
		return
	}
	c := ipv6.NewConn(st.conn)
	if hasTOS {
		c.SetTrafficClass(int(decInt32(tos)))
	}
	if hasTTL {
		c.SetHopLimit(int(decInt32(ttl)))
	}
}

// Typed views over stored option bytes. Caller holds st.mu.

func (st *socketState) optBool(opt core.SockOpt, def bool) bool {
	raw, ok := st.opts[opt]
	if !ok || len(raw) == 0 {
		return def
	}
	return raw[0] != 0
}

func (st *socketState) optInt32(opt core.SockOpt, def int32) int32 {
	raw, ok := st.opts[opt]
	if !ok || len(raw) != 4 {
		return def
	}
	return decInt32(raw)
}

func (st *socketState) optInt64(opt core.SockOpt, def int64) int64 {
	raw, ok := st.opts[opt]
	if !ok || len(raw) != 8 {
		return def
	}
	return int64(binary.NativeEndian.Uint64(raw))
}

func encBool(v bool) []byte {
	buf := make([]byte, core.NativeBoolLen)
	if v {
		buf[0] = 1
	}
	return buf
}

func encInt32(v int32) []byte {
	buf := make([]byte, 4)
	binary.NativeEndian.PutUint32(buf, uint32(v))
	return buf
}

func encInt64(v int64) []byte {
	buf := make([]byte, 8)
	binary.NativeEndian.PutUint64(buf, uint64(v))
	return buf
}

func decInt32(raw []byte) int32 {
	return int32(binary.NativeEndian.Uint32(raw))
}
