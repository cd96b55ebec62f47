//go:build windows

package core

import "encoding/binary"

// NativeBoolLen is the wire width of boolean-valued options. The reference
// engine stores them as C++ bool, one byte on the Windows ABI as well.
const NativeBoolLen = 1

// NativeLingerLen is the width of the linger option pair: LINGER with two
// u_short fields on Windows.
const NativeLingerLen = 4

// PutLinger encodes an on/off flag and linger seconds into buf, which must
// be NativeLingerLen bytes.
func PutLinger(buf []byte, on bool, secs int32) {
	var onoff uint16
	if on {
		onoff = 1
	}
	binary.NativeEndian.PutUint16(buf[0:2], onoff)
	binary.NativeEndian.PutUint16(buf[2:4], uint16(secs))
}

// GetLinger decodes a native linger pair from buf.
func GetLinger(buf []byte) (on bool, secs int32) {
	on = binary.NativeEndian.Uint16(buf[0:2]) != 0
	secs = int32(binary.NativeEndian.Uint16(buf[2:4]))
	return on, secs
}
