// Package observe provides observability primitives for group and
// membership resolution.
//
// It is a pure instrumentation library: no resolution, no transport, no
// I/O beyond exporter setup. Consumers wire the observer into the
// membership and groupref resolvers or their own middleware.
package observe
