// Package netaddr resolves the address peers on the local network should
// use to reach a server running on this host.
package netaddr
