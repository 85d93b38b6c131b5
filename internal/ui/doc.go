// Package ui renders discovery results for the upnp-discover CLI.
//
// Two ssdp.Reporter implementations live here:
//
//   - Console: plain line output, one banner and one indented location per
//     new device. This is the default and works when piped.
//   - WatchReporter: feeds a Bubble Tea view that keeps a live table of
//     discovered devices while the search repeats.
//
// Styles are built from a Lip Gloss renderer bound to the output writer, so
// colors are dropped automatically when output is not a terminal.
//
// # Usage
//
//	console := ui.NewConsole(os.Stdout, verbose)
//	console.Start(opts.Target)
//	session, err := ssdp.NewSession(conn, opts, console)
//	...
//	err = session.Run(ctx)
//
// For the live view, the session runs in a goroutine owned by RunWatch:
//
//	reporter := ui.NewWatchReporter()
//	session, err := ssdp.NewSession(conn, opts, reporter)
//	...
//	err = ui.RunWatch(ctx, reporter, session.Run)
//
// # Logging Integration
//
// zap logging is silent unless UPNP_DISCOVER_LOG_LEVEL is set, so the
// output from this package is all the user sees by default. Logs go to
// stderr and do not interleave with the device list on stdout.
package ui
