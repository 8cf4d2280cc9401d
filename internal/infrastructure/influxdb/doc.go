// Package influxdb provides InfluxDB connectivity for the busylight daemon.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, activity writing, and health monitoring.
//
// # Purpose
//
// This package handles optional time-series export of:
//   - Closed rule activity intervals (how long each rule held the light)
//   - Signal transitions for offline analysis
//
// The SQLite interval ledger remains the authoritative store; InfluxDB
// export exists for dashboarding over longer horizons.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "busylight",
//	    Bucket:  "activity",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteRuleInterval("a1b2", "camera busy", startMS, endMS)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via a
// callback. Connection and health check errors are returned directly.
package influxdb
