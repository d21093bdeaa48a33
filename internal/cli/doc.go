// Package cli implements the command-line interface for cq-intel.
//
// The cli package provides the Cobra-based CLI with commands for
// fetching and querying comment entries (get), exporting result lists
// (export csv|pdf), running the caching proxy (serve), and inspecting
// the local cache (cache status|clear). Configuration lives in
// ~/.cq-intel.yaml and is managed with Viper.
package cli
