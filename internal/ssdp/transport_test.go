package ssdp

import (
	"net"
	"testing"
)

func TestListen(t *testing.T) {
	opts := DefaultListenOptions()
	opts.Address = "127.0.0.1:0"

	conn, err := Listen(opts)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		t.Fatalf("LocalAddr() = %T, want *net.UDPAddr", conn.LocalAddr())
	}
	if addr.Port == 0 {
		t.Error("socket should be bound to a port")
	}
}

func TestListen_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts ListenOptions
	}{
		{
			name: "bad address",
			opts: ListenOptions{Address: "not-an-address"},
		},
		{
			name: "unknown interface",
			opts: ListenOptions{Address: "127.0.0.1:0", MulticastTTL: 1, Interface: "no-such-iface0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Listen(tt.opts)
			if err == nil {
				conn.Close()
				t.Fatal("Listen() should fail")
			}
			if !IsTransportError(err) {
				t.Errorf("Listen() error = %v, want transport error", err)
			}
		})
	}
}

func TestListen_PortInUse(t *testing.T) {
	first, err := Listen(ListenOptions{Address: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer first.Close()

	_, err = Listen(ListenOptions{Address: first.LocalAddr().String()})
	if !IsTransportError(err) {
		t.Errorf("second Listen() error = %v, want transport error", err)
	}
}
