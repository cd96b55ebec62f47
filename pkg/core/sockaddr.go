package core

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// Address family tags used in native sockaddr buffers.
const (
	afInet  = 2
	afInet6 = 10
)

// Native sockaddr buffer sizes. IPv4 buffers are sockaddr_in shaped
// (family, port, address, zero padding); IPv6 buffers are sockaddr_in6
// shaped (family, port, flowinfo, address, scope).
const (
	SockaddrLen4 = 16
	SockaddrLen6 = 28
)

// SockaddrFromAddrPort encodes ap into a native sockaddr buffer. The family
// tag is host-endian, the port network-endian, matching the engine ABI.
func SockaddrFromAddrPort(ap netip.AddrPort) []byte {
	if ap.Addr().Is4() || ap.Addr().Is4In6() {
		buf := make([]byte, SockaddrLen4)
		binary.NativeEndian.PutUint16(buf[0:2], afInet)
		binary.BigEndian.PutUint16(buf[2:4], ap.Port())
		a4 := ap.Addr().Unmap().As4()
		copy(buf[4:8], a4[:])
		return buf
	}
	buf := make([]byte, SockaddrLen6)
	binary.NativeEndian.PutUint16(buf[0:2], afInet6)
	binary.BigEndian.PutUint16(buf[2:4], ap.Port())
	a16 := ap.Addr().As16()
	copy(buf[8:24], a16[:])
	return buf
}

// SockaddrToAddrPort decodes a native sockaddr buffer produced by the engine
// or by SockaddrFromAddrPort. It fails when the family tag or buffer length
// is inconsistent; it never panics on malformed input.
func SockaddrToAddrPort(buf []byte) (netip.AddrPort, error) {
	if len(buf) < 4 {
		return netip.AddrPort{}, fmt.Errorf("sockaddr buffer too short: %d bytes", len(buf))
	}
	family := binary.NativeEndian.Uint16(buf[0:2])
	port := binary.BigEndian.Uint16(buf[2:4])
	switch family {
	case afInet:
		if len(buf) < SockaddrLen4 {
			return netip.AddrPort{}, fmt.Errorf("short sockaddr_in: %d bytes", len(buf))
		}
		var a4 [4]byte
		copy(a4[:], buf[4:8])
		return netip.AddrPortFrom(netip.AddrFrom4(a4), port), nil
	case afInet6:
		if len(buf) < SockaddrLen6 {
			return netip.AddrPort{}, fmt.Errorf("short sockaddr_in6: %d bytes", len(buf))
		}
		var a16 [16]byte
		copy(a16[:], buf[8:24])
		return netip.AddrPortFrom(netip.AddrFrom16(a16).Unmap(), port), nil
	}
	return netip.AddrPort{}, fmt.Errorf("unrecognized address family %d", family)
}
