package ssdp

import "testing"

func TestRegistry_FirstSeenWins(t *testing.T) {
	reg := NewRegistry()

	first := &DeviceRecord{
		USN:      Present("uuid:abc::upnp:rootdevice"),
		Location: Present("http://10.0.0.5/first.xml"),
		Server:   Present("First/1.0"),
	}
	second := &DeviceRecord{
		USN:      Present("uuid:abc::upnp:rootdevice"),
		Location: Present("http://10.0.0.6/second.xml"),
		Server:   Present("Second/2.0"),
	}

	if !reg.Add(first) {
		t.Fatal("Add() of a new device should return true")
	}
	if reg.Add(second) {
		t.Error("Add() of a duplicate USN should return false")
	}

	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	if got := reg.Get("uuid:abc::upnp:rootdevice"); got != first {
		t.Errorf("Get() = %+v, want the first record", got)
	}
}

func TestRegistry_DistinctUSNs(t *testing.T) {
	reg := NewRegistry()

	for _, usn := range []string{"uuid:c", "uuid:a", "uuid:b"} {
		if !reg.Add(&DeviceRecord{USN: Present(usn)}) {
			t.Errorf("Add(%s) = false, want true", usn)
		}
	}

	devices := reg.Devices()
	if len(devices) != 3 {
		t.Fatalf("Devices() returned %d devices, want 3", len(devices))
	}
	for i, want := range []string{"uuid:a", "uuid:b", "uuid:c"} {
		if devices[i].USN.Value != want {
			t.Errorf("Devices()[%d] = %s, want %s", i, devices[i].USN.Value, want)
		}
	}
}

func TestRegistry_RecordsWithoutUSNShareOneEntry(t *testing.T) {
	reg := NewRegistry()

	if !reg.Add(&DeviceRecord{Location: Present("http://a/")}) {
		t.Error("first USN-less record should be added")
	}
	if reg.Add(&DeviceRecord{Location: Present("http://b/")}) {
		t.Error("second USN-less record should be discarded")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	if NewRegistry().Get("uuid:missing") != nil {
		t.Error("Get() of unknown USN should return nil")
	}
}
