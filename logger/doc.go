// Package logger provides structured logging for sqlcache using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Output defaults to
// stderr so it does not interleave with test binary output.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("dump")
//	log.Info("table dumped", logger.Fields(logger.FieldTable, "users", logger.FieldRows, 3))
package logger
