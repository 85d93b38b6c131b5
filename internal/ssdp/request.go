package ssdp

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// MulticastAddress is the SSDP multicast group and port
	MulticastAddress = "239.255.255.250:1900"

	// ListenAddress is the local address replies are received on
	ListenAddress = "0.0.0.0:42425"

	// RootDeviceTarget is the search target for top-level UPnP devices
	RootDeviceTarget = "upnp:rootdevice"

	// DefaultMX is the maximum reply delay advertised to devices, in seconds.
	// It doubles as the receive timeout.
	DefaultMX = 3

	// DefaultBufferSize is the receive buffer size. Longer replies are truncated.
	DefaultBufferSize = 1024

	// DefaultMulticastTTL keeps the search on the local segment plus one hop
	DefaultMulticastTTL = 2
)

// SearchTarget describes one M-SEARCH request
type SearchTarget struct {
	// Host is the value of the HOST header and the send destination
	Host string

	// ST is the search target (e.g., "upnp:rootdevice")
	ST string

	// MX is the maximum delay in seconds devices spread their replies over
	MX int
}

// DefaultSearchTarget returns the root device search sent to the standard group
func DefaultSearchTarget() SearchTarget {
	return SearchTarget{
		Host: MulticastAddress,
		ST:   RootDeviceTarget,
		MX:   DefaultMX,
	}
}

// MXDuration returns MX as a time.Duration
func (t SearchTarget) MXDuration() time.Duration {
	return time.Duration(t.MX) * time.Second
}

// BuildSearchRequest formats the M-SEARCH datagram for target
func BuildSearchRequest(target SearchTarget) []byte {
	return []byte("M-SEARCH * HTTP/1.1\r\n" +
		"HOST:" + target.Host + "\r\n" +
		"MAN:\"ssdp:discover\"\r\n" +
		"MX:" + strconv.Itoa(target.MX) + "\r\n" +
		"ST:" + target.ST + "\r\n\r\n")
}

// ResolveTarget resolves the HOST of target to a UDP destination
func ResolveTarget(target SearchTarget) (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp4", target.Host)
	if err != nil {
		return nil, NewTransportError("resolve", target.Host, err)
	}
	if !addr.IP.IsMulticast() {
		return nil, NewTransportError("resolve", target.Host, fmt.Errorf("%s is not a multicast address", addr.IP))
	}
	return addr, nil
}
