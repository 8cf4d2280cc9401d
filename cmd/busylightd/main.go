// busylightd - USB busylight control daemon
//
// This is the main entry point for the busylight daemon. It owns the
// light end to end:
//   - Signal ingestion over MQTT (camera, mic, meetings, audio rosters)
//   - Rule evaluation with first-match-wins ordering
//   - Manual overrides and rules/auto mode via a loopback HTTP API
//   - Raw HID report output to the device node
//   - Per-rule activity accounting in SQLite, optionally exported to InfluxDB
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/busylight-core/migrations"

	"github.com/nerrad567/busylight-core/internal/api"
	"github.com/nerrad567/busylight-core/internal/hid"
	"github.com/nerrad567/busylight-core/internal/infrastructure/config"
	"github.com/nerrad567/busylight-core/internal/infrastructure/database"
	"github.com/nerrad567/busylight-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/busylight-core/internal/infrastructure/logging"
	"github.com/nerrad567/busylight-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/busylight-core/internal/metrics"
	"github.com/nerrad567/busylight-core/internal/orchestrator"
	"github.com/nerrad567/busylight-core/internal/rules"
	"github.com/nerrad567/busylight-core/internal/signals"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// prunePeriod is how often expired activity intervals are dropped.
const prunePeriod = time.Hour

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error { //nolint:gocognit // Linear startup wiring; splitting hurts readability
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting busylightd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise rule registry
	ruleRepo := rules.NewSQLiteRepository(db.DB)
	ruleRegistry := rules.NewRegistry(ruleRepo)
	ruleRegistry.SetLogger(log)

	if refreshErr := ruleRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading rule registry: %w", refreshErr)
	}
	log.Info("rule registry initialised", "rules", ruleRegistry.Count())

	// Initialise activity ledger
	metricsStore := metrics.NewStore(metrics.NewSQLiteRepository(db.DB))
	metricsStore.SetLogger(log)
	if loadErr := metricsStore.Load(ctx); loadErr != nil {
		return fmt.Errorf("loading activity ledger: %w", loadErr)
	}

	// Load persisted daemon settings
	settingsStore := orchestrator.NewSQLiteSettingsStore(db.DB)
	settings, err := settingsStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// Device output. An empty device path runs the daemon dry: decisions
	// are made and logged but no reports are written.
	var transmitter orchestrator.Transmitter
	if cfg.Device.Path != "" {
		fileTx := hid.NewFileTransmitter(cfg.Device.Path, log)
		defer fileTx.Close()
		transmitter = fileTx
		log.Info("device output configured", "path", cfg.Device.Path)
	} else {
		transmitter = hid.NopTransmitter{}
		log.Warn("no device path configured, running dry")
	}
	driver := orchestrator.NewDriver(transmitter, log)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Create the decision engine. Closed intervals land in the SQLite
	// ledger and, when configured, in InfluxDB.
	engine := orchestrator.NewEngine(orchestrator.Deps{
		Rules:    ruleRegistry,
		Recorder: newIntervalRecorder(metricsStore, ruleRegistry, influxClient),
		Device:   driver,
		Settings: settingsStore,
		Logger:   log,
		Hello:    cfg.Device.ConnectHello,
	})
	defer func() {
		log.Info("closing engine")
		engine.Close()
	}()
	engine.Restore(ctx, settings)
	log.Info("engine restored",
		"enabled", settings.Enabled,
		"rules_mode", settings.RulesMode,
	)

	// Connect to MQTT broker. The signal feed is optional: without it the
	// daemon still serves manual commands over HTTP.
	topics := mqtt.Topics{}
	var mqttClient *mqtt.Client
	mqttClient, err = mqtt.Connect(cfg.MQTT)
	if err != nil {
		log.Warn("MQTT unavailable, running without signal feed", "error", err)
		mqttClient = nil
	} else {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		mqttClient.SetLogger(log)

		// Wire signal ingestion
		source := signals.NewSource(signals.Options{
			Engine:   engine,
			Recorder: signalRecorder(influxClient),
			Logger:   log,
			QoS:      byte(cfg.MQTT.QoS),
		})
		if subErr := source.Start(ctx, mqttClient); subErr != nil {
			return fmt.Errorf("subscribing to signal topics: %w", subErr)
		}
		log.Info("signal source started", "topics", topics.AllSignals())
	}

	// Start the HTTP control plane
	apiDeps := api.Deps{
		Config:          cfg.API,
		Logger:          log,
		Engine:          engine,
		Rules:           ruleRegistry,
		Metrics:         metricsStore,
		DefaultPeriodMS: cfg.Device.DefaultPeriodMS,
		Version:         version,
	}
	if mqttClient != nil {
		apiDeps.Publisher = mqttClient
		apiDeps.StateTopic = topics.State()
	}
	apiServer, err := api.New(apiDeps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Periodic retention pruning of the activity ledger
	go func() {
		ticker := time.NewTicker(prunePeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metricsStore.Prune(ctx, time.Now().UnixMilli())
			}
		}
	}()

	// Verify infrastructure is healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. MQTT (if connected)
	// 3. Engine (closes any open interval, persists settings)
	// 4. InfluxDB (if enabled)
	// 5. Device node
	// 6. Database

	log.Info("busylightd stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses BUSYLIGHT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("BUSYLIGHT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
// MQTT and InfluxDB are optional; nil clients are skipped.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// intervalRecorder fans closed rule intervals out to the SQLite ledger
// and, when configured, to InfluxDB. The ledger is authoritative; the
// InfluxDB write is fire-and-forget.
type intervalRecorder struct {
	store  *metrics.Store
	rules  *rules.Registry
	influx *influxdb.Client
}

func newIntervalRecorder(store *metrics.Store, registry *rules.Registry, influx *influxdb.Client) *intervalRecorder {
	return &intervalRecorder{store: store, rules: registry, influx: influx}
}

// RecordInterval implements orchestrator.IntervalRecorder.
func (r *intervalRecorder) RecordInterval(ctx context.Context, ruleID string, startMS, endMS int64) {
	r.store.RecordInterval(ctx, ruleID, startMS, endMS)

	if r.influx != nil {
		ruleName := ruleID
		if rule, err := r.rules.Get(ctx, ruleID); err == nil {
			ruleName = rule.Name
		}
		r.influx.WriteRuleInterval(ruleID, ruleName, startMS, endMS)
	}
}

// signalRecorder returns the signal-change recorder for the source, or
// nil when InfluxDB is disabled. A typed nil inside a non-nil interface
// would defeat the source's nil check.
func signalRecorder(influx *influxdb.Client) signals.Recorder {
	if influx == nil {
		return nil
	}
	return influx
}
