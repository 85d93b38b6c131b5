package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muurk/upnp-discover/internal/ssdp"
)

// Console prints discovery events as plain lines. It is the default
// ssdp.Reporter for the search command.
type Console struct {
	out     io.Writer
	styles  Styles
	verbose bool
}

// NewConsole creates a Console writing to w. If w is nil, os.Stdout is used.
// Verbose adds a line per burst.
func NewConsole(w io.Writer, verbose bool) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{
		out:     w,
		styles:  NewStyles(w),
		verbose: verbose,
	}
}

// Start prints the startup line
func (c *Console) Start(target ssdp.SearchTarget) {
	c.println(c.styles.Title.Render("Starting UPNP root device search"))
	if c.verbose {
		c.println(c.styles.Muted.Render(fmt.Sprintf("  ST %s via %s, MX %d", target.ST, target.Host, target.MX)))
	}
}

// SearchStarted implements ssdp.Reporter
func (c *Console) SearchStarted(burst int) {
	if c.verbose {
		c.println(c.styles.Muted.Render(fmt.Sprintf("Search #%d", burst)))
	}
}

// DeviceFound implements ssdp.Reporter. It prints the server banner, then
// the location indented by a tab.
func (c *Console) DeviceFound(rec *ssdp.DeviceRecord) {
	c.println(c.styles.Server.Render(rec.Server.Or(NoServer)))
	c.println("\t" + c.styles.Location.Render(rec.Location.Or(NoLocation)))
}

// ParseFailed implements ssdp.Reporter
func (c *Console) ParseFailed(from string, err error) {
	msg := "Failed to parse response"
	if from != "" {
		msg += " from " + from
	}
	c.println(c.styles.Failure.Render(fmt.Sprintf("%s: %v", msg, err)))
}

// BurstEnded implements ssdp.Reporter
func (c *Console) BurstEnded(stats ssdp.BurstStats) {
	if stats.ReceiveErr != nil {
		c.println(c.styles.Warning.Render(fmt.Sprintf("Search #%d ended early: %v", stats.Burst, stats.ReceiveErr)))
	}
	if c.verbose {
		c.println(c.styles.Muted.Render(fmt.Sprintf("  %d replies, %d new, %d duplicate, %d rejected in %s",
			stats.Received, stats.NewDevices, stats.Duplicates, stats.ParseFailures, stats.Duration.Round(time.Millisecond))))
	}
}

// Summary prints the devices collected by a bounded run
func (c *Console) Summary(devices []*ssdp.DeviceRecord) {
	c.println("")
	if len(devices) == 0 {
		c.println("No devices found.")
		c.println("")
		c.println(c.styles.Muted.Render("Troubleshooting:"))
		c.println(c.styles.Muted.Render("  - Check that multicast traffic is allowed on this network"))
		c.println(c.styles.Muted.Render("  - Allow inbound UDP on the listen port in your firewall"))
		c.println(c.styles.Muted.Render("  - Use --interface to pick the network to search"))
		return
	}

	c.println(c.styles.Title.Render(fmt.Sprintf("Found %d device(s)", len(devices))))
	for i, rec := range devices {
		c.println(fmt.Sprintf("%d. %s", i+1, rec.USN.Or(NoUSN)))
		c.println(c.styles.Muted.Render("   Server:   ") + rec.Server.Or(NoServer))
		c.println(c.styles.Muted.Render("   Location: ") + rec.Location.Or(NoLocation))
		if id, ok := rec.UUID(); ok {
			c.println(c.styles.Muted.Render("   UUID:     ") + id.String())
		}
	}
}

func (c *Console) println(line string) {
	_, _ = fmt.Fprintln(c.out, line)
}
