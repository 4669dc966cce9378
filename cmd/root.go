package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/qbitwatch/config"
	"github.com/s0up4200/qbitwatch/qbittorrent"
	"github.com/s0up4200/qbitwatch/sensor"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "qbitwatch",
	Short: "Derived sensors for a qBittorrent instance",
	Long: `qbitwatch polls the qBittorrent Web API and derives summary sensors
from the torrent list: counts by state, the highest completion ETA,
an aggregate download percentage and the global transfer speeds.

Run 'qbitwatch serve' to publish the sensors over HTTP (JSON + Prometheus),
or 'qbitwatch status' for a one-shot reading.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion records the build information injected by the linker.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and logger
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	return nil
}

// newQBittorrentClient connects to the configured qBittorrent instance.
func newQBittorrentClient() (*qbittorrent.Client, error) {
	client, err := qbittorrent.NewClient(
		cfg.QBittorrent.URL,
		cfg.QBittorrent.Username,
		cfg.QBittorrent.Password,
		cfg.QBittorrent.Timeout,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create qBittorrent client: %w", err)
	}
	return client, nil
}

// sensorFilter compiles the configured torrent filter, nil when unset.
func sensorFilter() (*sensor.Filter, error) {
	if cfg.Poll.Filter == "" {
		return nil, nil
	}
	filter, err := sensor.CompileFilter(cfg.Poll.Filter)
	if err != nil {
		return nil, fmt.Errorf("invalid poll.filter: %w", err)
	}
	return filter, nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a one-shot sensor reading",
	Long:  `Fetch the current torrent list from qBittorrent and print all derived sensor values.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newQBittorrentClient()
	if err != nil {
		return err
	}

	filter, err := sensorFilter()
	if err != nil {
		return err
	}

	ctx := context.Background()
	snapshot, err := client.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch snapshot: %w", err)
	}

	if filter != nil {
		filtered, err := filter.Apply(snapshot.Torrents)
		if err != nil {
			return err
		}
		snapshot.Torrents = filtered
	}

	values := sensor.Compute(snapshot)

	fmt.Printf("\nqBittorrent sensors (%s):\n", cfg.QBittorrent.URL)
	if filter != nil {
		fmt.Printf("Filter: %s\n", filter.Expression())
	}
	fmt.Println(strings.Repeat("-", 44))
	fmt.Printf("%-24s %s\n", "Status:", values.Status)
	fmt.Printf("%-24s %.2f KiB/s\n", "Download speed:", values.DownloadSpeed)
	fmt.Printf("%-24s %.2f KiB/s\n", "Upload speed:", values.UploadSpeed)
	fmt.Printf("%-24s %d\n", "Total torrents:", values.TotalCount)
	fmt.Printf("%-24s %d\n", "Downloading:", values.DownloadingCount)
	fmt.Printf("%-24s %d\n", "Seeding:", values.SeedingCount)
	fmt.Printf("%-24s %d\n", "Paused:", values.PausedCount)
	if values.HighestETAMinutes != nil {
		fmt.Printf("%-24s %d min\n", "Highest ETA:", *values.HighestETAMinutes)
	} else {
		fmt.Printf("%-24s n/a\n", "Highest ETA:")
	}
	fmt.Printf("%-24s %.2f%%\n", "Download percentage:", values.DownloadPercent)

	return nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to qBittorrent",
	Long:  `Test the connection to your qBittorrent instance and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to qBittorrent at %s...\n", cfg.QBittorrent.URL)

	// Connection is already tested during client creation
	client, err := newQBittorrentClient()
	if err != nil {
		return err
	}
	fmt.Println("✓ Connection successful!")

	ctx := context.Background()
	torrents, err := client.GetAllTorrents(ctx)
	if err != nil {
		return fmt.Errorf("failed to get torrents: %w", err)
	}

	fmt.Printf("\nqBittorrent statistics:\n")
	fmt.Printf("- Total torrents: %d\n", len(torrents))

	if cfg.Poll.Filter != "" {
		fmt.Printf("- Torrent filter: %s\n", cfg.Poll.Filter)
	}
	fmt.Printf("- Poll interval: %s\n", cfg.Poll.Interval)

	return nil
}
