// Package logging provides structured logging for upnp-discover.
//
// This package wraps a global zap logger. It is silent unless a level is given
// on the command line or through UPNP_DISCOVER_LOG_LEVEL, so the console
// output of a search is exactly the device lines. Log output goes to stderr.
//
// # Log Levels
//
//   - Debug: datagram hex/ascii dumps, rejected replies, read window expiry
//   - Info: new devices and per-burst summaries
//   - Warn: receive errors that end a burst early
//   - Error: fatal transport failures
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("Device discovered",
//	    zap.String("usn", "uuid:abc::upnp:rootdevice"),
//	    zap.String("from", "10.0.0.5:1900"),
//	)
package logging
