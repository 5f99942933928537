// Package observability turns controller lifecycle hooks into structured logs
// and Prometheus metrics.
package observability
