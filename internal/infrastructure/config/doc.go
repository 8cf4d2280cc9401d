// Package config loads and validates the daemon's YAML configuration.
//
// Loading happens once at startup: the YAML file is parsed, BUSYLIGHT_*
// environment variables override individual fields, defaults fill the
// gaps, and Validate rejects anything inconsistent before the daemon
// touches hardware. Nothing re-reads the file at runtime.
//
// Secrets (MQTT passwords, InfluxDB tokens) belong in environment
// variables rather than the file, which should sit at 0600 either way.
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Device.DefaultPeriodMS)
package config
