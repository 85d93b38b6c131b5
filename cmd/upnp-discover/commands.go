package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/upnp-discover/internal/config"
	"github.com/muurk/upnp-discover/internal/logging"
	"github.com/muurk/upnp-discover/internal/ssdp"
	"github.com/muurk/upnp-discover/internal/ui"
)

// Search command flags
var (
	configPath    string
	logLevel      string
	listenAddress string
	searchTarget  string
	mx            int
	readTimeout   time.Duration
	maxBursts     int
	deadline      time.Duration
	multicastTTL  int
	ifaceName     string
	watch         bool
	verbose       bool
	forceInit     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the user config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default silent)")

	addSearchFlags(rootCmd)
	addSearchFlags(searchCmd)

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")
}

// addSearchFlags registers the search flags on cmd. The root command and
// search share the same variables so both spellings behave the same.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&listenAddress, "listen", ssdp.ListenAddress, "Local address to receive replies on")
	cmd.Flags().StringVar(&searchTarget, "target", ssdp.RootDeviceTarget, "Search target (ST header)")
	cmd.Flags().IntVar(&mx, "mx", ssdp.DefaultMX, "Maximum reply delay in seconds (MX header)")
	cmd.Flags().DurationVar(&readTimeout, "timeout", 0, "Receive timeout that ends a search burst (default MX seconds)")
	cmd.Flags().IntVar(&maxBursts, "bursts", 0, "Stop after this many searches (0 repeats forever)")
	cmd.Flags().DurationVar(&deadline, "deadline", 0, "Stop after this long (0 means no limit)")
	cmd.Flags().IntVar(&multicastTTL, "ttl", ssdp.DefaultMulticastTTL, "Multicast TTL of the search request")
	cmd.Flags().StringVar(&ifaceName, "interface", "", "Network interface to search on")
	cmd.Flags().BoolVar(&watch, "watch", false, "Show a live device table instead of plain output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print a line for every search burst")
}

// searchCmd runs the discovery loop
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for UPnP root devices",
	Long: `Search for UPnP root devices using SSDP.

Each search burst multicasts one M-SEARCH request and collects replies until
no reply arrives for the receive timeout. New devices are printed as they are
found: the server banner, then the description URL on an indented line.
Replies that are not "200" responses are reported and skipped.`,
	Example: `  # Search until interrupted
  upnp-discover

  # Three searches, then print a summary
  upnp-discover search --bursts 3

  # Search for ten seconds on a specific interface
  upnp-discover search --deadline 10s --interface eth0

  # Live table of devices
  upnp-discover --watch

  # Show raw datagrams
  upnp-discover --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := initLogging(cfg); err != nil {
		return err
	}
	logger := logging.GetLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := ssdp.Listen(cfg.ListenOptions())
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	logger.Debug("Listening for replies",
		zap.String("local", conn.LocalAddr().String()),
		zap.String("group", cfg.Discovery.MulticastAddress),
		zap.String("st", cfg.Discovery.SearchTarget))

	opts := cfg.SessionOptions()

	if watch && !ui.IsTerminal(os.Stdout) {
		logger.Warn("Output is not a terminal, using plain output instead of --watch")
		watch = false
	}

	if watch {
		reporter := ui.NewWatchReporter()
		session, err := ssdp.NewSession(conn, opts, reporter)
		if err != nil {
			return err
		}
		return ui.RunWatch(ctx, reporter, session.Run)
	}

	console := ui.NewConsole(cmd.OutOrStdout(), verbose)
	session, err := ssdp.NewSession(conn, opts, console)
	if err != nil {
		return err
	}

	console.Start(opts.Target)
	err = session.Run(ctx)

	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return fmt.Errorf("search failed: %w", err)
	}

	if interrupted || opts.MaxBursts > 0 || opts.Deadline > 0 {
		console.Summary(session.Registry().Devices())
	}
	return nil
}

// loadConfig reads the config file and applies any flags the user set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	d := &cfg.Discovery
	if flags.Changed("listen") {
		d.ListenAddress = listenAddress
	}
	if flags.Changed("target") {
		d.SearchTarget = searchTarget
	}
	if flags.Changed("mx") {
		d.MX = mx
	}
	if flags.Changed("timeout") {
		d.ReadTimeout = readTimeout
	}
	if flags.Changed("bursts") {
		d.MaxBursts = maxBursts
	}
	if flags.Changed("deadline") {
		d.Deadline = deadline
	}
	if flags.Changed("ttl") {
		d.MulticastTTL = multicastTTL
	}
	if flags.Changed("interface") {
		d.Interface = ifaceName
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// initLogging sets up zap. The flag wins, then UPNP_DISCOVER_LOG_LEVEL, then
// the config file.
func initLogging(cfg *config.Config) error {
	level := logLevel
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		level = cfg.Log.Level
	}
	if err := logging.Initialize(level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// configCmd groups the config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Example: `  # Create the default config file
  upnp-discover config init

  # Write to a specific path, replacing any existing file
  upnp-discover config init --config ./upnp.yaml --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration the search starts from: the defaults merged with
the config file. Search flags given on the command line override it.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
