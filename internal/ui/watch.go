package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/upnp-discover/internal/ssdp"
)

// Messages forwarded from the discovery session
type searchStartedMsg struct{ burst int }
type deviceFoundMsg struct{ rec *ssdp.DeviceRecord }
type parseFailedMsg struct {
	from string
	err  error
}
type burstEndedMsg struct{ stats ssdp.BurstStats }
type sessionDoneMsg struct{ err error }

// WatchReporter forwards session events to the watch view. The session
// goroutine blocks on a send until the view takes the event or closes.
type WatchReporter struct {
	events    chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatchReporter creates a reporter for use with RunWatch
func NewWatchReporter() *WatchReporter {
	return &WatchReporter{
		events: make(chan tea.Msg, 64),
		done:   make(chan struct{}),
	}
}

func (r *WatchReporter) send(msg tea.Msg) {
	select {
	case r.events <- msg:
	case <-r.done:
	}
}

// SearchStarted implements ssdp.Reporter
func (r *WatchReporter) SearchStarted(burst int) { r.send(searchStartedMsg{burst: burst}) }

// DeviceFound implements ssdp.Reporter
func (r *WatchReporter) DeviceFound(rec *ssdp.DeviceRecord) { r.send(deviceFoundMsg{rec: rec}) }

// ParseFailed implements ssdp.Reporter
func (r *WatchReporter) ParseFailed(from string, err error) {
	r.send(parseFailedMsg{from: from, err: err})
}

// BurstEnded implements ssdp.Reporter
func (r *WatchReporter) BurstEnded(stats ssdp.BurstStats) { r.send(burstEndedMsg{stats: stats}) }

// finish tells the view the session has returned
func (r *WatchReporter) finish(err error) { r.send(sessionDoneMsg{err: err}) }

// close releases a session blocked on send after the view exits
func (r *WatchReporter) close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// waitForEvent returns a command that delivers the next session event
func (r *WatchReporter) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-r.events:
			return msg
		case <-r.done:
			return nil
		}
	}
}

// watchKeyMap defines key bindings for the watch view
type watchKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// WatchModel is a Bubble Tea model showing devices as they are discovered
type WatchModel struct {
	reporter *WatchReporter
	styles   Styles

	Devices       []*ssdp.DeviceRecord
	Burst         int
	Searching     bool
	ParseFailures int
	LastFailure   string
	LastStats     ssdp.BurstStats
	Done          bool
	Err           error

	Width   int
	Spinner spinner.Model
	Help    help.Model
	Keys    watchKeyMap
}

// NewWatchModel creates the watch view fed by reporter
func NewWatchModel(reporter *WatchReporter) WatchModel {
	styles := NewStyles(os.Stdout)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return WatchModel{
		reporter: reporter,
		styles:   styles,
		Width:    GetTerminalWidth(),
		Spinner:  s,
		Help:     help.New(),
		Keys: watchKeyMap{
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init implements tea.Model
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.reporter.waitForEvent())
}

// Update implements tea.Model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.Keys.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil

	case searchStartedMsg:
		m.Burst = msg.burst
		m.Searching = true
		return m, m.reporter.waitForEvent()

	case deviceFoundMsg:
		m.Devices = append(m.Devices, msg.rec)
		return m, m.reporter.waitForEvent()

	case parseFailedMsg:
		m.ParseFailures++
		m.LastFailure = fmt.Sprintf("%s: %v", msg.from, msg.err)
		return m, m.reporter.waitForEvent()

	case burstEndedMsg:
		m.Searching = false
		m.LastStats = msg.stats
		return m, m.reporter.waitForEvent()

	case sessionDoneMsg:
		m.Searching = false
		m.Done = true
		m.Err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("UPnP root devices"))
	b.WriteString("\n\n")

	switch {
	case m.Searching:
		b.WriteString(fmt.Sprintf("%s Searching (burst #%d)...\n\n", m.Spinner.View(), m.Burst))
	case m.Done:
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Search finished after %d burst(s)", m.Burst)))
		b.WriteString("\n\n")
	default:
		b.WriteString(m.styles.Muted.Render("Waiting for next search..."))
		b.WriteString("\n\n")
	}

	if len(m.Devices) == 0 {
		b.WriteString(m.styles.Muted.Render("No devices yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("%-3s %-*s %s", "#", m.serverWidth(), "SERVER", "LOCATION")))
		b.WriteString("\n")
		for i, rec := range m.Devices {
			b.WriteString(fmt.Sprintf("%-3d %s %s\n",
				i+1,
				m.styles.Server.Render(fmt.Sprintf("%-*s", m.serverWidth(), truncate(rec.Server.Or(NoServer), m.serverWidth()))),
				rec.Location.Or(NoLocation),
			))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d device(s), %d rejected", len(m.Devices), m.ParseFailures)))
	b.WriteString("\n")
	if m.LastFailure != "" {
		b.WriteString(m.styles.Failure.Render("Last failure: " + m.LastFailure))
		b.WriteString("\n")
	}
	if m.LastStats.ReceiveErr != nil {
		b.WriteString(m.styles.Warning.Render(fmt.Sprintf("Burst #%d ended early: %v", m.LastStats.Burst, m.LastStats.ReceiveErr)))
		b.WriteString("\n")
	}
	if m.Err != nil && !errors.Is(m.Err, context.Canceled) {
		b.WriteString(m.styles.Failure.Render("Error: " + m.Err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.Help.View(m.Keys))
	b.WriteString("\n")

	return b.String()
}

// serverWidth is the column width for the server banner
func (m WatchModel) serverWidth() int {
	w := m.Width / 3
	if w < 16 {
		w = 16
	}
	return w
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

// RunWatch runs the discovery session in the background while the watch view
// owns the terminal. run must report through reporter. Quitting the view
// cancels the session; a session that ends on its own closes the view.
func RunWatch(ctx context.Context, reporter *WatchReporter, run func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sessionErr := make(chan error, 1)
	go func() {
		err := run(ctx)
		reporter.finish(err)
		sessionErr <- err
	}()

	program := tea.NewProgram(NewWatchModel(reporter), tea.WithOutput(os.Stdout))
	_, viewErr := program.Run()

	reporter.close()
	cancel()
	err := <-sessionErr

	if viewErr != nil {
		return fmt.Errorf("watch view failed: %w", viewErr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
