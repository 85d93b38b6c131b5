package ssdp

import (
	"errors"
	"net"
	"os"
	"sync"
	"time"
)

// datagram is one scripted ReadFrom result
type datagram struct {
	payload []byte
	from    net.Addr
	err     error
}

// fakeConn is a net.PacketConn that replays scripted reads. Once the script is
// exhausted every read times out, which ends the burst. The mutex covers the
// deadline set from Run's cancellation hook.
type fakeConn struct {
	mu        sync.Mutex
	reads     []datagram
	sent      [][]byte
	sentTo    []net.Addr
	writeErr  error
	deadlines []time.Time
	closed    bool

	// onSetDeadline runs after each read deadline is recorded
	onSetDeadline func()
}

func (c *fakeConn) ReadFrom(b []byte) (int, net.Addr, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, nil, net.ErrClosed
	}
	if len(c.reads) == 0 {
		return 0, nil, os.ErrDeadlineExceeded
	}
	d := c.reads[0]
	c.reads = c.reads[1:]
	if d.err != nil {
		return 0, nil, d.err
	}
	n := copy(b, d.payload)
	return n, d.from, nil
}

func (c *fakeConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.sent = append(c.sent, append([]byte(nil), b...))
	c.sentTo = append(c.sentTo, addr)
	return len(b), nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4zero, Port: 42425}
}

func (c *fakeConn) SetDeadline(t time.Time) error {
	return c.SetReadDeadline(t)
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("set deadline on closed conn")
	}
	c.deadlines = append(c.deadlines, t)
	if c.onSetDeadline != nil {
		c.onSetDeadline()
	}
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error {
	return nil
}

// recordingReporter captures session events
type recordingReporter struct {
	started  []int
	found    []*DeviceRecord
	failures []error
	bursts   []BurstStats
}

func (r *recordingReporter) SearchStarted(burst int) {
	r.started = append(r.started, burst)
}

func (r *recordingReporter) DeviceFound(rec *DeviceRecord) {
	r.found = append(r.found, rec)
}

func (r *recordingReporter) ParseFailed(_ string, err error) {
	r.failures = append(r.failures, err)
}

func (r *recordingReporter) BurstEnded(stats BurstStats) {
	r.bursts = append(r.bursts, stats)
}

func deviceAddr(last byte) net.Addr {
	return &net.UDPAddr{IP: net.IPv4(10, 0, 0, last), Port: 1900}
}

func reply(location, usn, server string) []byte {
	return []byte("HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=1800\r\n" +
		"LOCATION: " + location + "\r\n" +
		"SERVER: " + server + "\r\n" +
		"ST: upnp:rootdevice\r\n" +
		"USN: " + usn + "\r\n\r\n")
}
