// Package config loads and validates stratum.json, the project
// configuration for the stratum CLI and session server.
package config
