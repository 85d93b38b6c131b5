package ssdp

import "sort"

// Registry holds every device seen during a session, keyed by USN.
// Entries are never replaced or removed. A Registry belongs to a single
// Session and is not safe for concurrent use.
type Registry struct {
	devices map[string]*DeviceRecord
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*DeviceRecord),
	}
}

// Add inserts rec if its key has not been seen before.
// Returns true when rec is a new device; a duplicate is discarded.
func (r *Registry) Add(rec *DeviceRecord) bool {
	key := rec.Key()
	if _, exists := r.devices[key]; exists {
		return false
	}
	r.devices[key] = rec
	return true
}

// Get retrieves a device by USN, or nil if it has not been seen
func (r *Registry) Get(usn string) *DeviceRecord {
	return r.devices[usn]
}

// Len returns the number of distinct devices
func (r *Registry) Len() int {
	return len(r.devices)
}

// Devices returns all devices ordered by USN
func (r *Registry) Devices() []*DeviceRecord {
	keys := make([]string, 0, len(r.devices))
	for k := range r.devices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	devices := make([]*DeviceRecord, 0, len(keys))
	for _, k := range keys {
		devices = append(devices, r.devices[k])
	}
	return devices
}
