package ssdp

import (
	"strings"
	"unicode/utf8"
)

// StatusOK is the only status code that yields a device
const StatusOK = "200"

// Headers maps lower-cased header names to their raw values
type Headers map[string]string

// Get returns the header value and whether it was present
func (h Headers) Get(name string) Field {
	v, ok := h[strings.ToLower(name)]
	if !ok {
		return Field{}
	}
	return Present(v)
}

// ParseHeaders reads "Name: Value" lines. Names are lower-cased, values keep
// their case. Values are not the raw text after the colon: surrounding
// whitespace is trimmed, so "LOCATION: http://h/" yields "http://h/". Lines
// without a colon are skipped and later duplicates win.
func ParseHeaders(lines []string) Headers {
	headers := make(Headers, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	return headers
}

// ParseResponse converts one M-SEARCH reply into a DeviceRecord. payload must
// hold only the bytes actually received. ParseResponse has no side effects.
func ParseResponse(payload []byte) (*DeviceRecord, error) {
	if !utf8.Valid(payload) {
		return nil, &ParseError{Reason: ReasonInvalidUTF8}
	}

	lines := splitLines(string(payload))
	if len(lines) == 0 || strings.Trim(lines[0], "\x00 \t") == "" {
		return nil, &ParseError{Reason: ReasonEmpty}
	}

	statusLine := lines[0]
	statusCode := parseStatusCode(statusLine)
	if statusCode == "" {
		return nil, &ParseError{Reason: ReasonMalformedStatus, StatusLine: statusLine}
	}
	if statusCode != StatusOK {
		return nil, &ParseError{Reason: ReasonStatus, StatusLine: statusLine, StatusCode: statusCode}
	}

	headers := ParseHeaders(lines[1:])

	return &DeviceRecord{
		Location: headers.Get("location"),
		Server:   headers.Get("server"),
		USN:      headers.Get("usn"),
	}, nil
}

// parseStatusCode returns the second space-delimited token of an
// "HTTP/1.1 <code> <reason>" line, or "" when there is none
func parseStatusCode(statusLine string) string {
	fields := strings.Split(statusLine, " ")
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// splitLines splits on LF, dropping a trailing CR from each line and a final
// empty line
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
