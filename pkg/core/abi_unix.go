//go:build !windows

package core

import "encoding/binary"

// NativeBoolLen is the wire width of boolean-valued options. The reference
// engine stores them as C++ bool, one byte on every unix ABI it supports.
// Kept as a per-platform constant rather than assumed universally.
const NativeBoolLen = 1

// NativeLingerLen is the width of the linger option pair: struct linger
// with two native ints on unix.
const NativeLingerLen = 8

// PutLinger encodes an on/off flag and linger seconds into buf, which must
// be NativeLingerLen bytes.
func PutLinger(buf []byte, on bool, secs int32) {
	var onoff uint32
	if on {
		onoff = 1
	}
	binary.NativeEndian.PutUint32(buf[0:4], onoff)
	binary.NativeEndian.PutUint32(buf[4:8], uint32(secs))
}

// GetLinger decodes a native linger pair from buf.
func GetLinger(buf []byte) (on bool, secs int32) {
	on = binary.NativeEndian.Uint32(buf[0:4]) != 0
	secs = int32(binary.NativeEndian.Uint32(buf[4:8]))
	return on, secs
}
