// Package config provides centralized configuration loading for the
// RootLayer SDK example programs, covering gateway endpoints, relay
// targets, chain definitions, signer key sources, and logging.
package config
