// Package logging wraps log/slog into the daemon's one logging
// convention: structured records, a service/version attribute pair on
// everything, JSON in production and text during development.
//
// Configured from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Construct once at startup and hand the *Logger (or a With() child)
// to every component:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("listening", "addr", addr)
package logging
