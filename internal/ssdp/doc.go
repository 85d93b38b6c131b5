// Package ssdp discovers UPnP root devices with the Simple Service Discovery
// Protocol.
//
// A Session repeats discovery bursts over a single UDP socket. Each burst:
//  1. Sends one M-SEARCH datagram to the SSDP multicast group (239.255.255.250:1900)
//  2. Receives unicast replies, each bounded by a read timeout equal to MX
//  3. Parses every reply into a DeviceRecord
//  4. Adds new devices to the session Registry, keyed by USN (first seen wins)
//  5. Ends when a receive times out
//
// # Usage Example
//
//	conn, err := ssdp.Listen(ssdp.DefaultListenOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	session, err := ssdp.NewSession(conn, ssdp.DefaultOptions(), reporter)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := session.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Errors
//
// Transport errors (bind, socket options, send, closed socket) end the run.
// Receive errors end the current burst only, and parse errors only reject the
// datagram that caused them.
//
// # Thread Safety
//
// A Session and its Registry are owned by the goroutine that calls Run and
// must not be shared. ParseResponse is pure and safe for concurrent use.
package ssdp
