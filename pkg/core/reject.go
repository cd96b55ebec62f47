package core

// RejectReason is the diagnostic recorded by the engine when a connection
// attempt fails. It is richer than the plain error code and is read through
// a dedicated call, not the option mechanism.
type RejectReason int32

const (
	RejUnknown    RejectReason = 0  // no connection attempt failed yet
	RejSystem     RejectReason = 1  // broken due to a system function error
	RejPeer       RejectReason = 2  // connection rejected by the peer
	RejResource   RejectReason = 3  // resource allocation problem
	RejRogue      RejectReason = 4  // incorrect data in handshake
	RejBacklog    RejectReason = 5  // listener's backlog exceeded
	RejIPE        RejectReason = 6  // internal program error
	RejClose      RejectReason = 7  // socket is closing or peer refused
	RejVersion    RejectReason = 8  // peer version too old
	RejRdvCookie  RejectReason = 9  // rendezvous cookie collision
	RejBadSecret  RejectReason = 10 // wrong passphrase
	RejUnsecure   RejectReason = 11 // unencrypted peer not allowed
	RejMessageAPI RejectReason = 12 // message api flag collision
	RejCongestion RejectReason = 13 // incompatible congestion controller
	RejFilter     RejectReason = 14 // incompatible packet filter
	RejGroup      RejectReason = 15 // incompatible group
	RejTimeout    RejectReason = 16 // connection timed out
)

var rejectReasonNames = map[RejectReason]string{
	RejUnknown:    "unknown",
	RejSystem:     "system function error",
	RejPeer:       "rejected by peer",
	RejResource:   "resource allocation problem",
	RejRogue:      "incorrect handshake data",
	RejBacklog:    "listener backlog exceeded",
	RejIPE:        "internal program error",
	RejClose:      "socket closed or refusing",
	RejVersion:    "peer version too old",
	RejRdvCookie:  "rendezvous cookie collision",
	RejBadSecret:  "wrong passphrase",
	RejUnsecure:   "unencrypted peer not allowed",
	RejMessageAPI: "message api collision",
	RejCongestion: "incompatible congestion controller",
	RejFilter:     "incompatible packet filter",
	RejGroup:      "incompatible group",
	RejTimeout:    "connection timed out",
}

func (r RejectReason) String() string {
	if s, ok := rejectReasonNames[r]; ok {
		return s
	}
	return "unrecognized reject reason"
}
