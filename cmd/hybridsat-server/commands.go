package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hybridsat/hybrid-satellite/internal/api"
	"github.com/hybridsat/hybrid-satellite/internal/config"
	"github.com/hybridsat/hybrid-satellite/internal/discovery"
	"github.com/hybridsat/hybrid-satellite/internal/entities"
	"github.com/hybridsat/hybrid-satellite/internal/hub"
	"github.com/hybridsat/hybrid-satellite/internal/logging"
	"github.com/hybridsat/hybrid-satellite/internal/store"
	"github.com/hybridsat/hybrid-satellite/internal/version"
	"github.com/hybridsat/hybrid-satellite/internal/voice"
	"github.com/hybridsat/hybrid-satellite/internal/web"
)

// Serve flags, persistent on root so both 'hybridsat-server' and
// 'hybridsat-server serve' accept them. Zero values mean "use the config
// file".
var (
	configPath string
	host       string
	port       int
	logLevel   string
	staticDir  string
	dbPath     string
	noMDNS     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (empty = default location)")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "Bind address for both listeners (overrides config)")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "WebSocket server port (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&staticDir, "static-dir", "", "Directory of browser client assets to serve (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Settings database path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noMDNS, "no-mdns", false, "Do not advertise the device link over mDNS")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the satellite",
	Long: `Start the voice satellite and run until interrupted.

Configuration is read from the config file (default location under the user
config directory), then overridden by HYBRIDSAT_* environment variables and
finally by command line flags. A missing config file is fine: the defaults
work on a typical LAN.

The device-link port (6053) is fixed because the hub ecosystem expects it;
only the bind host can be changed.`,
	Example: `  # Start with defaults (WebSocket on :8765, device link on :6053)
  hybridsat-server serve
  # Or simply (serve is default):
  hybridsat-server

  # Custom WebSocket port and verbose logging
  hybridsat-server serve --port 9000 --log-level debug

  # Serve the bundled browser client alongside the WebSocket endpoint
  hybridsat-server serve --static-dir ./webclient

  # Use a specific config file
  hybridsat-server serve --config /etc/hybridsat/config.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags beat file and environment values
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if staticDir != "" {
		cfg.Server.StaticDir = staticDir
	}
	if dbPath != "" {
		cfg.Advanced.DBPath = dbPath
	}
	if noMDNS {
		cfg.Advanced.DisableMDNS = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Initialize(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	logging.Info("Starting hybrid voice satellite",
		zap.String("version", version.Version),
		zap.String("device_listen", cfg.DeviceListenAddr()),
		zap.String("web_listen", cfg.ListenAddr()),
		zap.Bool("ssl", cfg.Server.SSL),
		zap.Bool("auth", cfg.Server.AuthToken != ""),
	)

	// Settings persistence is best effort: a broken database costs saved
	// wake word and mute state, nothing else.
	db, err := store.Open(cfg.Advanced.DBPath)
	if err == nil {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			db.Close()
			db = nil
		}
	}
	if err != nil {
		logging.Warn("Settings persistence disabled", zap.Error(err))
	}

	var settings voice.Settings
	if db != nil {
		settings = db
		defer db.Close()
	}

	orch := voice.NewOrchestrator(entities.NewRegistry(), settings, cfg.MediaPlayDelay())

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Second)
	orch.LoadSettings(loadCtx)
	cancelLoad()

	deviceSrv := api.NewServer(cfg.DeviceListenAddr(), orch)
	if err := deviceSrv.Start(); err != nil {
		return fmt.Errorf("failed to start device-link server: %w", err)
	}

	h := hub.New(orch, nil, cfg)
	orch.SetBroadcaster(h)

	webSrv := web.New(cfg, h, orch, deviceSrv)
	go func() {
		if err := webSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Web server failed", zap.Error(err))
		}
	}()

	var adv *discovery.Advertiser
	if cfg.Advanced.DisableMDNS {
		logging.Info("mDNS advertisement disabled")
	} else {
		adv, err = discovery.Advertise(discovery.Identity{
			Name:           api.ServerName,
			FriendlyName:   voice.DeviceName,
			MAC:            voice.DeviceMAC,
			Version:        voice.FirmwareVersion,
			Project:        voice.ProjectName,
			ProjectVersion: voice.ProjectVersion,
		}, config.DevicePort)
		if err != nil {
			logging.Warn("mDNS advertisement failed, add the satellite to the hub by host instead", zap.Error(err))
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	logging.Info("Shutting down", zap.String("signal", sig.String()))

	// A second signal skips the graceful path.
	go func() {
		<-quit
		logging.Warn("Forced shutdown")
		logging.Sync()
		os.Exit(1)
	}()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Withdraw the advertisement first so the hub stops reconnecting, then
	// drop the device link before the browser side goes away.
	adv.Shutdown()
	if err := deviceSrv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Device-link server shutdown error", zap.Error(err))
	}
	if err := webSrv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Web server shutdown error", zap.Error(err))
	}

	logging.Info("Shutdown complete")
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file populated with default values.

The file is written to the default location unless --config points
elsewhere. Refuses to overwrite an existing file.`,
	Example: `  # Create the default config file
  hybridsat-server config init

  # Create a config file at a specific path
  hybridsat-server config init --config /etc/hybridsat/config.yaml`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.WriteDefault(configPath)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
	fmt.Println("Edit the file and start the satellite with 'hybridsat-server serve'")
	return nil
}
