package ssdp

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/upnp-discover/internal/logging"
)

// Options configures a discovery session
type Options struct {
	// Target is the search sent at the start of every burst
	Target SearchTarget

	// ReadTimeout bounds each receive. A receive that times out ends the burst.
	// Defaults to Target.MX seconds.
	ReadTimeout time.Duration

	// BufferSize is the receive buffer size (default 1024)
	BufferSize int

	// MaxBursts stops Run after this many bursts; 0 runs forever
	MaxBursts int

	// Deadline stops Run after this much time; 0 means no deadline
	Deadline time.Duration
}

// DefaultOptions returns a root device search repeated forever
func DefaultOptions() Options {
	return Options{
		Target:      DefaultSearchTarget(),
		ReadTimeout: DefaultMX * time.Second,
		BufferSize:  DefaultBufferSize,
	}
}

// BurstStats summarises one request/collect cycle
type BurstStats struct {
	Burst         int           // 1-based burst number
	Received      int           // Datagrams received
	NewDevices    int           // Replies that added a device to the registry
	Duplicates    int           // Replies for devices already in the registry
	ParseFailures int           // Replies rejected by the parser
	Duration      time.Duration // Time from send to end of collection
	ReceiveErr    error         // Non-timeout receive error that ended the burst, if any
}

// Reporter receives session events. Calls are made from the goroutine
// running the session.
type Reporter interface {
	SearchStarted(burst int)
	DeviceFound(rec *DeviceRecord)
	ParseFailed(from string, err error)
	BurstEnded(stats BurstStats)
}

// NopReporter discards every event
type NopReporter struct{}

func (NopReporter) SearchStarted(int)         {}
func (NopReporter) DeviceFound(*DeviceRecord) {}
func (NopReporter) ParseFailed(string, error) {}
func (NopReporter) BurstEnded(BurstStats)     {}

// Session owns the socket and the device registry for one discovery run.
// It is driven by a single goroutine.
type Session struct {
	conn     net.PacketConn
	opts     Options
	reporter Reporter
	registry *Registry

	request []byte
	dest    net.Addr
	bursts  int

	now func() time.Time
}

// NewSession creates a session that searches over conn. A nil reporter
// discards events.
func NewSession(conn net.PacketConn, opts Options, reporter Reporter) (*Session, error) {
	if opts.Target.Host == "" {
		opts.Target.Host = MulticastAddress
	}
	if opts.Target.ST == "" {
		opts.Target.ST = RootDeviceTarget
	}
	if opts.Target.MX <= 0 {
		opts.Target.MX = DefaultMX
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = opts.Target.MXDuration()
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if reporter == nil {
		reporter = NopReporter{}
	}

	dest, err := ResolveTarget(opts.Target)
	if err != nil {
		return nil, err
	}

	return &Session{
		conn:     conn,
		opts:     opts,
		reporter: reporter,
		registry: NewRegistry(),
		request:  BuildSearchRequest(opts.Target),
		dest:     dest,
		now:      time.Now,
	}, nil
}

// Registry returns the devices seen so far
func (s *Session) Registry() *Registry {
	return s.registry
}

// Bursts returns the number of bursts started
func (s *Session) Bursts() int {
	return s.bursts
}

// Run repeats bursts until MaxBursts or Deadline is reached, ctx is
// cancelled, or a transport error occurs. Reaching MaxBursts or Deadline
// returns nil.
func (s *Session) Run(ctx context.Context) error {
	runCtx := ctx
	if s.opts.Deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.opts.Deadline)
		defer cancel()
	}

	// Unblock a pending receive as soon as the run is cancelled
	stop := context.AfterFunc(runCtx, func() {
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for s.opts.MaxBursts == 0 || s.bursts < s.opts.MaxBursts {
		if _, err := s.Burst(runCtx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				logging.Debug("Search deadline reached", zap.Duration("deadline", s.opts.Deadline))
				return nil
			}
			return err
		}
	}
	return nil
}

// Burst sends one search request and collects replies until a receive
// times out.
func (s *Session) Burst(ctx context.Context) (BurstStats, error) {
	if err := ctx.Err(); err != nil {
		return BurstStats{}, err
	}

	s.bursts++
	stats := BurstStats{Burst: s.bursts}
	start := s.now()

	s.reporter.SearchStarted(stats.Burst)
	if err := s.sendSearch(); err != nil {
		return stats, err
	}

	err := s.collect(ctx, &stats)
	stats.Duration = s.now().Sub(start)

	logging.LogBurst(stats.Burst, stats.Received, stats.NewDevices, stats.Duplicates, stats.ParseFailures, stats.Duration)
	s.reporter.BurstEnded(stats)
	return stats, err
}

// sendSearch transmits the M-SEARCH datagram
func (s *Session) sendSearch() error {
	logging.LogDatagram("sent", s.dest.String(), s.request)
	if _, err := s.conn.WriteTo(s.request, s.dest); err != nil {
		return NewTransportError("send", s.dest.String(), err)
	}
	return nil
}

// collect drains the socket until a read window passes with no datagram
func (s *Session) collect(ctx context.Context, stats *BurstStats) error {
	buf := make([]byte, s.opts.BufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		deadline := s.now().Add(s.opts.ReadTimeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		if err := s.conn.SetReadDeadline(deadline); err != nil {
			return NewTransportError("set read deadline", addrString(s.conn.LocalAddr()), err)
		}

		// A cancellation that moved the deadline before the call above was overwritten
		if err := ctx.Err(); err != nil {
			return err
		}

		n, from, err := s.conn.ReadFrom(buf)
		if err != nil {
			discErr := ClassifyReceiveError(err)
			switch discErr.Type {
			case ErrTypeTimeout:
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logging.Debug("Read window elapsed", zap.Int("burst", stats.Burst))
				return nil
			case ErrTypeTransport:
				return discErr
			default:
				logging.Warn("Receive failed, ending burst", zap.Int("burst", stats.Burst), zap.Error(err))
				stats.ReceiveErr = discErr
				return nil
			}
		}

		stats.Received++
		s.handleDatagram(buf[:n], addrString(from), stats)
	}
}

// handleDatagram parses one reply and applies the first-seen-wins policy
func (s *Session) handleDatagram(payload []byte, from string, stats *BurstStats) {
	logging.LogDatagram("received", from, payload)

	rec, err := ParseResponse(payload)
	if err != nil {
		stats.ParseFailures++
		logging.Debug("Rejected reply", zap.String("from", from), zap.Error(err))
		s.reporter.ParseFailed(from, err)
		return
	}

	rec.From = from
	rec.DiscoveredAt = s.now()

	if !s.registry.Add(rec) {
		stats.Duplicates++
		return
	}

	stats.NewDevices++
	logging.Info("Device discovered",
		zap.String("usn", rec.USN.Value),
		zap.String("location", rec.Location.Value),
		zap.String("from", from),
	)
	s.reporter.DeviceFound(rec)
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}
