package core

// ErrorCode is a native engine error code as reported through the last-error
// side channel. Codes group by thousands: setup, connection, system resource,
// filesystem, unsupported operation, again/timeout, peer.
type ErrorCode int32

const (
	ErrUnknown ErrorCode = -1
	ErrSuccess ErrorCode = 0

	ErrConnSetup ErrorCode = 1000
	ErrNoServer  ErrorCode = 1001
	ErrConnRej   ErrorCode = 1002
	ErrSockFail  ErrorCode = 1003
	ErrSecFail   ErrorCode = 1004
	ErrSClosed   ErrorCode = 1005

	ErrConnFail ErrorCode = 2000
	ErrConnLost ErrorCode = 2001
	ErrNoConn   ErrorCode = 2002

	ErrResource ErrorCode = 3000
	ErrThread   ErrorCode = 3001
	ErrNoBuf    ErrorCode = 3002
	ErrSysObj   ErrorCode = 3003

	ErrFile     ErrorCode = 4000
	ErrInvRdOff ErrorCode = 4001
	ErrRdPerm   ErrorCode = 4002
	ErrInvWrOff ErrorCode = 4003
	ErrWrPerm   ErrorCode = 4004

	ErrInvOp          ErrorCode = 5000
	ErrBoundSock      ErrorCode = 5001
	ErrConnSock       ErrorCode = 5002
	ErrInvParam       ErrorCode = 5003
	ErrInvSock        ErrorCode = 5004
	ErrUnboundSock    ErrorCode = 5005
	ErrNoListen       ErrorCode = 5006
	ErrRdvNoServ      ErrorCode = 5007
	ErrRdvUnbound     ErrorCode = 5008
	ErrInvalMsgAPI    ErrorCode = 5009
	ErrInvalBufferAPI ErrorCode = 5010
	ErrDupListen      ErrorCode = 5011
	ErrLargeMsg       ErrorCode = 5012
	ErrInvPollID      ErrorCode = 5013
	ErrPollEmpty      ErrorCode = 5014

	ErrAsyncFail ErrorCode = 6000
	ErrAsyncSnd  ErrorCode = 6001
	ErrAsyncRcv  ErrorCode = 6002
	ErrTimeout   ErrorCode = 6003
	ErrCongest   ErrorCode = 6004

	ErrPeerErr ErrorCode = 7000
)

var errorCodeNames = map[ErrorCode]string{
	ErrUnknown:        "unknown",
	ErrSuccess:        "success",
	ErrConnSetup:      "connection setup failure",
	ErrNoServer:       "no server response",
	ErrConnRej:        "connection rejected",
	ErrSockFail:       "socket creation failure",
	ErrSecFail:        "security setup failure",
	ErrSClosed:        "socket closed",
	ErrConnFail:       "connection failure",
	ErrConnLost:       "connection lost",
	ErrNoConn:         "not connected",
	ErrResource:       "system resource failure",
	ErrThread:         "thread creation failure",
	ErrNoBuf:          "no buffer memory",
	ErrSysObj:         "system object failure",
	ErrFile:           "file access error",
	ErrInvRdOff:       "invalid read offset",
	ErrRdPerm:         "read permission denied",
	ErrInvWrOff:       "invalid write offset",
	ErrWrPerm:         "write permission denied",
	ErrInvOp:          "invalid operation",
	ErrBoundSock:      "socket already bound",
	ErrConnSock:       "socket already connected",
	ErrInvParam:       "invalid parameter",
	ErrInvSock:        "invalid socket id",
	ErrUnboundSock:    "socket not bound",
	ErrNoListen:       "socket not listening",
	ErrRdvNoServ:      "rendezvous cannot listen",
	ErrRdvUnbound:     "rendezvous requires bind",
	ErrInvalMsgAPI:    "invalid message api usage",
	ErrInvalBufferAPI: "invalid buffer api usage",
	ErrDupListen:      "port already listening",
	ErrLargeMsg:       "message too large",
	ErrInvPollID:      "invalid epoll id",
	ErrPollEmpty:      "epoll container empty",
	ErrAsyncFail:      "async failure",
	ErrAsyncSnd:       "send not ready",
	ErrAsyncRcv:       "recv not ready",
	ErrTimeout:        "operation timed out",
	ErrCongest:        "congestion warning",
	ErrPeerErr:        "peer error",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return "unrecognized error code"
}
