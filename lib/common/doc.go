// Package common provides the pieces shared by the dConf command line and the
// storage backends.
//
// Key Components:
//
//   - StorageConfig: the parsed configuration of a storage backend (file,
//     memory, bolt or redis) together with logging options. It renders itself
//     as a human readable table with String().
//
//   - Logger: custom logging implementation that plugs into Dragonboat's
//     logger package, so every package logs through logger.GetLogger(name)
//     with consistent formatting. InitLoggers sets the level of all dConf
//     loggers at once.
package common
