// Package logging builds the structured loggers used across feignbridge.
//
// It wraps log/slog so every component is configured the same way from the
// config file and CLI flags.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	log := logging.Component(logger, "dispatch")
//	log.Info("replaying pending commands", "count", 3)
//
// # Integration
//
// Components accept a *slog.Logger through an option and fall back to
// logging.Nop() when none is given. Tests that need to assert on log output
// can use a Recorder.
package logging
