package ssdp

import (
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

// ListenOptions controls the local socket replies are received on
type ListenOptions struct {
	// Address is the local bind address (default "0.0.0.0:42425")
	Address string

	// MulticastTTL is the TTL of the outgoing search datagram
	MulticastTTL int

	// Interface names the interface to send multicast on; empty means the
	// system default route
	Interface string

	// Loopback controls whether the search is looped back to local listeners
	Loopback bool
}

// DefaultListenOptions returns the fixed bind address and a link-local TTL
func DefaultListenOptions() ListenOptions {
	return ListenOptions{
		Address:      ListenAddress,
		MulticastTTL: DefaultMulticastTTL,
		Loopback:     true,
	}
}

// Listen binds the UDP socket used for one discovery session. The socket is
// held for the life of the session and closed by the caller.
func Listen(opts ListenOptions) (net.PacketConn, error) {
	if opts.Address == "" {
		opts.Address = ListenAddress
	}

	laddr, err := net.ResolveUDPAddr("udp4", opts.Address)
	if err != nil {
		return nil, NewTransportError("resolve", opts.Address, err)
	}

	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return nil, NewTransportError("bind", opts.Address, err)
	}

	if err := configureMulticast(ipv4.NewPacketConn(conn), opts); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// configureMulticast applies the multicast socket options
func configureMulticast(pc *ipv4.PacketConn, opts ListenOptions) error {
	if opts.MulticastTTL > 0 {
		if err := pc.SetMulticastTTL(opts.MulticastTTL); err != nil {
			return NewTransportError("set multicast ttl", opts.Address, err)
		}
	}

	if err := pc.SetMulticastLoopback(opts.Loopback); err != nil {
		return NewTransportError("set multicast loopback", opts.Address, err)
	}

	if opts.Interface != "" {
		iface, err := net.InterfaceByName(opts.Interface)
		if err != nil {
			return NewTransportError("lookup interface", opts.Interface, err)
		}
		if iface.Flags&net.FlagMulticast == 0 {
			return NewTransportError("set multicast interface", opts.Interface,
				fmt.Errorf("interface %s does not support multicast", iface.Name))
		}
		if err := pc.SetMulticastInterface(iface); err != nil {
			return NewTransportError("set multicast interface", opts.Interface, err)
		}
	}

	return nil
}
