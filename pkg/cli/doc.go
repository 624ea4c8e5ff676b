// Package cli implements the feignbridge command line.
//
// Commands are registered on a shared root command in their own init
// functions. Every command honours the persistent --config, --json,
// --log-level and --log-format flags.
package cli
