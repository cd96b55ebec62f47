package core

// SockStatus is a socket lifecycle state as reported by the engine.
type SockStatus int32

const (
	StatusInit       SockStatus = 1
	StatusOpened     SockStatus = 2
	StatusListening  SockStatus = 3
	StatusConnecting SockStatus = 4
	StatusConnected  SockStatus = 5
	StatusBroken     SockStatus = 6
	StatusClosing    SockStatus = 7
	StatusClosed     SockStatus = 8
	// StatusNonExist is reported for identifiers the engine no longer
	// recognizes, e.g. a diagnostic read against a closed handle.
	StatusNonExist SockStatus = 9
)

func (s SockStatus) String() string {
	switch s {
	case StatusInit:
		return "init"
	case StatusOpened:
		return "opened"
	case StatusListening:
		return "listening"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusBroken:
		return "broken"
	case StatusClosing:
		return "closing"
	case StatusClosed:
		return "closed"
	case StatusNonExist:
		return "nonexist"
	}
	return "invalid"
}

// KMState describes key material (encryption handshake) progress for one
// direction of a connection.
type KMState int32

const (
	KMUnsecured KMState = 0 // no encryption configured
	KMSecuring  KMState = 1 // key exchange in progress
	KMSecured   KMState = 2 // keys agreed, payload encrypted
	KMNoSecret  KMState = 3 // peer sends encrypted, no local secret
	KMBadSecret KMState = 4 // local secret does not match peer's
)

func (k KMState) String() string {
	switch k {
	case KMUnsecured:
		return "unsecured"
	case KMSecuring:
		return "securing"
	case KMSecured:
		return "secured"
	case KMNoSecret:
		return "no secret"
	case KMBadSecret:
		return "bad secret"
	}
	return "invalid"
}

// TransType selects a transmission preset: live tunes for latency-bound
// streaming, file for throughput.
type TransType int32

const (
	TransLive    TransType = 0
	TransFile    TransType = 1
	TransInvalid TransType = 2
)

// EngineVersion is the version reported through OptVersion, encoded as
// 0x00XXYYZZ for version XX.YY.ZZ.
const EngineVersion int32 = 0x010500
