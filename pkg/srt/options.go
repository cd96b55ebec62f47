// options.go — typed option registry. Every socket option has exactly one
// registered value kind; the generic accessors marshal values to the
// engine's raw byte-buffer convention at the exact native width and refuse
// kind mismatches instead of guessing.
package srt

import (
	"encoding/binary"

	"github.com/irctrakz/gosrt/pkg/core"
)

// OptionValue is the closed set of value kinds the option surface uses.
type OptionValue interface {
	~bool | ~int32 | ~int64 | ~string
}

type optionKind int

const (
	optBool optionKind = iota
	optInt32
	optInt64
	optString
	optLinger
)

type optionDesc struct {
	kind   optionKind
	canGet bool
	canSet bool
}

func rw(k optionKind) optionDesc       { return optionDesc{kind: k, canGet: true, canSet: true} }
func readOnly(k optionKind) optionDesc { return optionDesc{kind: k, canGet: true} }
func writeOnly(k optionKind) optionDesc {
	return optionDesc{kind: k, canSet: true}
}

// optionRegistry is the authoritative kind and access table for the option
// surface. Phase restrictions (pre-bind, pre-connect) are enforced by the
// engine and surface as invalid-operation errors.
var optionRegistry = map[core.SockOpt]optionDesc{
	core.OptMSS:                rw(optInt32),
	core.OptSndSyn:             rw(optBool),
	core.OptRcvSyn:             rw(optBool),
	core.OptISN:                readOnly(optInt32),
	core.OptFC:                 rw(optInt32),
	core.OptSndBuf:             rw(optInt32),
	core.OptRcvBuf:             rw(optInt32),
	core.OptLinger:             rw(optLinger),
	core.OptUDPSndBuf:          rw(optInt32),
	core.OptUDPRcvBuf:          rw(optInt32),
	core.OptRendezvous:         rw(optBool),
	core.OptSndTimeO:           rw(optInt32),
	core.OptRcvTimeO:           rw(optInt32),
	core.OptReuseAddr:          rw(optBool),
	core.OptMaxBW:              rw(optInt64),
	core.OptState:              readOnly(optInt32),
	core.OptEvent:              readOnly(optInt32),
	core.OptSndData:            readOnly(optInt32),
	core.OptRcvData:            readOnly(optInt32),
	core.OptSender:             rw(optBool),
	core.OptTsbPdMode:          rw(optBool),
	core.OptLatency:            rw(optInt32),
	core.OptInputBW:            rw(optInt64),
	core.OptOHeadBW:            rw(optInt32),
	core.OptPassphrase:         writeOnly(optString),
	core.OptPBKeyLen:           rw(optInt32),
	core.OptKMState:            readOnly(optInt32),
	core.OptIPTTL:              rw(optInt32),
	core.OptIPTOS:              rw(optInt32),
	core.OptTLPktDrop:          rw(optBool),
	core.OptSndDropDelay:       rw(optInt32),
	core.OptNAKReport:          rw(optBool),
	core.OptVersion:            readOnly(optInt32),
	core.OptPeerVersion:        readOnly(optInt32),
	core.OptConnTimeO:          rw(optInt32),
	core.OptDriftTracer:        rw(optBool),
	core.OptMinInputBW:         rw(optInt64),
	core.OptSndKMState:         readOnly(optInt32),
	core.OptRcvKMState:         readOnly(optInt32),
	core.OptLossMaxTTL:         rw(optInt32),
	core.OptRcvLatency:         rw(optInt32),
	core.OptPeerLatency:        rw(optInt32),
	core.OptMinVersion:         rw(optInt32),
	core.OptStreamID:           rw(optString),
	core.OptCongestion:         rw(optString),
	core.OptMessageAPI:         rw(optBool),
	core.OptPayloadSize:        rw(optInt32),
	core.OptTransType:          writeOnly(optInt32),
	core.OptKMRefreshRate:      rw(optInt32),
	core.OptKMPreAnnounce:      rw(optInt32),
	core.OptEnforcedEncryption: rw(optBool),
	core.OptIPv6Only:           rw(optInt32),
	core.OptPeerIdleTimeO:      rw(optInt32),
	core.OptBindToDevice:       rw(optString),
	core.OptPacketFilter:       rw(optString),
	core.OptRetransmitAlgo:     rw(optInt32),
}

func kindOf[T OptionValue](v T) optionKind {
	switch any(v).(type) {
	case bool:
		return optBool
	case int32:
		return optInt32
	case int64:
		return optInt64
	default:
		return optString
	}
}

// SetOption writes an option value of the registered kind. Passing a value
// whose type does not match the registry fails without entering the engine;
// strings longer than the native capacity are refused, never cut.
func SetOption[T OptionValue](s *Socket, opt core.SockOpt, v T) error {
	id, e := s.handle("set option")
	if e != nil {
		return e
	}
	desc, ok := optionRegistry[opt]
	if !ok || !desc.canSet {
		return &Error{Kind: KindInvalidOperation, Op: "set option", Code: core.ErrInvOp}
	}
	if kindOf(v) != desc.kind {
		return &Error{Kind: KindInvalidOperation, Op: "set option", Code: core.ErrInvParam}
	}
	var raw []byte
	switch val := any(v).(type) {
	case bool:
		raw = make([]byte, core.NativeBoolLen)
		if val {
			raw[0] = 1
		}
	case int32:
		raw = make([]byte, 4)
		binary.NativeEndian.PutUint32(raw, uint32(val))
	case int64:
		raw = make([]byte, 8)
		binary.NativeEndian.PutUint64(raw, uint64(val))
	case string:
		if len(val) > core.MaxStringOptLen {
			return &Error{Kind: KindValueTruncated, Op: "set option"}
		}
		raw = []byte(val)
	}
	if s.eng.SetSockFlag(id, opt, raw) != 0 {
		return nativeError(s.eng, "set option", id)
	}
	return nil
}

// GetOption reads an option value of the registered kind. The value buffer
// is sized to the kind's native width up front, so the engine can never
// report a short buffer for a registered option.
func GetOption[T OptionValue](s *Socket, opt core.SockOpt) (T, error) {
	var zero T
	id, e := s.handle("get option")
	if e != nil {
		return zero, e
	}
	desc, ok := optionRegistry[opt]
	if !ok || !desc.canGet {
		return zero, &Error{Kind: KindInvalidOperation, Op: "get option", Code: core.ErrInvOp}
	}
	if kindOf(zero) != desc.kind {
		return zero, &Error{Kind: KindInvalidOperation, Op: "get option", Code: core.ErrInvParam}
	}
	var raw []byte
	switch desc.kind {
	case optBool:
		raw = make([]byte, core.NativeBoolLen)
	case optInt32:
		raw = make([]byte, 4)
	case optInt64:
		raw = make([]byte, 8)
	default:
		raw = make([]byte, core.MaxStringOptLen)
	}
	var rlen int32
	if s.eng.GetSockFlag(id, opt, raw, &rlen) != 0 {
		return zero, nativeError(s.eng, "get option", id)
	}
	if int(rlen) > len(raw) {
		return zero, &Error{Kind: KindBufferTooSmall, Op: "get option"}
	}
	raw = raw[:rlen]
	var out any
	switch desc.kind {
	case optBool:
		out = len(raw) > 0 && raw[0] != 0
	case optInt32:
		out = int32(binary.NativeEndian.Uint32(fixedWidth(raw, 4)))
	case optInt64:
		out = int64(binary.NativeEndian.Uint64(fixedWidth(raw, 8)))
	default:
		out = string(raw)
	}
	return out.(T), nil
}

// fixedWidth pads a value the engine reported short of its native width.
// Engines are allowed to return early sizes for fixed-width options; the
// missing bytes decode as zero rather than faulting.
func fixedWidth(raw []byte, width int) []byte {
	if len(raw) >= width {
		return raw[:width]
	}
	buf := make([]byte, width)
	copy(buf, raw)
	return buf
}

// Raw option access for the fixed-layout options the generic kinds cannot
// express. Used by the linger accessors.

func (s *Socket) setRawOption(opt core.SockOpt, raw []byte) error {
	id, e := s.handle("set option")
	if e != nil {
		return e
	}
	if s.eng.SetSockFlag(id, opt, raw) != 0 {
		return nativeError(s.eng, "set option", id)
	}
	return nil
}

func (s *Socket) getRawOption(opt core.SockOpt, raw []byte) ([]byte, error) {
	id, e := s.handle("get option")
	if e != nil {
		return nil, e
	}
	var rlen int32
	if s.eng.GetSockFlag(id, opt, raw, &rlen) != 0 {
		return nil, nativeError(s.eng, "get option", id)
	}
	if int(rlen) > len(raw) {
		return nil, &Error{Kind: KindBufferTooSmall, Op: "get option"}
	}
	return raw[:rlen], nil
}
