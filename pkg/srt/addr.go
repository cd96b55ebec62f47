package srt

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/irctrakz/gosrt/pkg/core"
)

// resolveFirst turns a "host:port" string into a concrete address. Literal
// IP:port strings never touch the resolver; hostnames resolve through the
// system resolver and the first returned address wins.
func resolveFirst(op, s string) (netip.AddrPort, *Error) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap, nil
	}
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return netip.AddrPort{}, errResolve(op, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return netip.AddrPort{}, errResolve(op, fmt.Errorf("invalid port %q: %w", portStr, err))
	}
	ips, err := net.LookupHost(host)
	if err != nil {
		return netip.AddrPort{}, errResolve(op, err)
	}
	for _, ip := range ips {
		if a, err := netip.ParseAddr(ip); err == nil {
			return netip.AddrPortFrom(a.Unmap(), uint16(port)), nil
		}
	}
	return netip.AddrPort{}, errResolve(op, fmt.Errorf("no usable address for %q", host))
}

// resolveSockaddr resolves s and encodes it as a native sockaddr buffer.
func resolveSockaddr(op, s string) ([]byte, *Error) {
	ap, e := resolveFirst(op, s)
	if e != nil {
		return nil, e
	}
	return core.SockaddrFromAddrPort(ap), nil
}
