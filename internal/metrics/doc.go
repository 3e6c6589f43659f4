// Package metrics provides Prometheus collectors for ajax requests and
// storage operations.
//
// A nil *Collector is valid and records nothing, so components can be built
// without metrics in tests.
package metrics
