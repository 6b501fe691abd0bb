package netaddr

import (
	"errors"
	"fmt"
	"net"
)

// ErrNoLANAddress is returned when no interface carries a usable
// non-loopback IPv4 address. Callers treat this as "LAN access
// unavailable", not as a fatal condition.
var ErrNoLANAddress = errors.New("no non-loopback IPv4 address found")

// Enumerator lists the host's interface addresses. It matches the
// signature of net.InterfaceAddrs so tests can substitute a fixed list.
type Enumerator func() ([]net.Addr, error)

// Resolver picks the LAN-facing IPv4 address of the host.
type Resolver struct {
	enumerate Enumerator
}

// NewResolver returns a Resolver backed by the operating system's
// interface enumeration.
func NewResolver() *Resolver {
	return &Resolver{enumerate: net.InterfaceAddrs}
}

// NewResolverWith returns a Resolver backed by a custom enumerator.
func NewResolverWith(enumerate Enumerator) *Resolver {
	return &Resolver{enumerate: enumerate}
}

// LANAddress returns the non-loopback local IPv4 address for LAN access.
//
// On multi-homed hosts (VPN adapters, virtual switches) the first address
// in the order the OS enumerates interface addresses wins; that order is
// platform and configuration dependent and is not adjusted here.
// Link-local 169.254.0.0/16 addresses are skipped, since peers cannot
// reach them reliably.
func (r *Resolver) LANAddress() (string, error) {
	addrs, err := r.enumerate()
	if err != nil {
		return "", fmt.Errorf("enumerating interface addresses: %w", err)
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipnet.IP.To4()
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		return ip.String(), nil
	}

	return "", ErrNoLANAddress
}
