// Package cli implements the command-line interface for webutils.
//
// The cli package provides the Cobra-based CLI that exposes each helper group
// as a subcommand: query parameter parsing, date formatting, storage get/set
// and JSON requests. Output is text or JSON, and --metrics dumps the
// Prometheus counters collected during the run.
package cli
