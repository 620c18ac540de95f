// Package cmd implements the command-line interface of dConf. It wires a
// storage backend (file, memory, bolt or redis) into a dynconf.Configuration
// and exposes its operations as commands.
//
// The package is organized into several subpackages:
//
//   - conf: Commands for configuration operations (get, set, del, incr, mget, dump, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through the environment with the DCONF_ prefix
// (e.g. DCONF_DATA_DIR), .env and .env.local files are loaded on start.
//
// See dconf -help for a list of all commands.
package cmd
