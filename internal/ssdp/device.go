package ssdp

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field is an optional header value. Valid is false when the header was
// absent from the reply.
type Field struct {
	Value string
	Valid bool
}

// Present returns a valid Field holding v
func Present(v string) Field {
	return Field{Value: v, Valid: true}
}

// Or returns the value, or fallback when the header was absent
func (f Field) Or(fallback string) string {
	if !f.Valid {
		return fallback
	}
	return f.Value
}

// DeviceRecord represents one discovered root device
type DeviceRecord struct {
	// Location is the advertised description document URL
	Location Field

	// Server is the advertised server banner (e.g., "Linux/3.14 UPnP/1.0 Foo/1.0")
	Server Field

	// USN is the Unique Service Name (e.g., "uuid:abc::upnp:rootdevice")
	USN Field

	// From is the address the reply came from (populated by the collector)
	From string

	// DiscoveredAt is when the reply was received
	DiscoveredAt time.Time
}

// Key returns the registry key for the record. Replies without a USN all
// share the empty key.
func (d *DeviceRecord) Key() string {
	return d.USN.Value
}

// UUID extracts the device UUID from a USN of the form
// "uuid:<uuid>" or "uuid:<uuid>::<type>"
func (d *DeviceRecord) UUID() (uuid.UUID, bool) {
	if !d.USN.Valid {
		return uuid.Nil, false
	}

	id, _, _ := strings.Cut(d.USN.Value, "::")
	if len(id) < len("uuid:") || !strings.EqualFold(id[:len("uuid:")], "uuid:") {
		return uuid.Nil, false
	}

	parsed, err := uuid.Parse(id[len("uuid:"):])
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

// String returns a human-readable string representation of the device
func (d *DeviceRecord) String() string {
	return fmt.Sprintf("UPnP root device %s at %s", d.USN.Or("<no usn>"), d.Location.Or("<no location>"))
}
