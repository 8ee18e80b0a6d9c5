package health

import (
	"context"
	"time"
)

// Status is the health state of a probed component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates reduced service, e.g. the cache is down
	// and every query recomputes.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one probe.
type Result struct {
	Status    Status
	Message   string
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, Timestamp: time.Now()}
}

// Degraded creates a degraded result.
func Degraded(message string, err error) Result {
	return Result{Status: StatusDegraded, Message: message, Error: err, Timestamp: time.Now()}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err, Timestamp: time.Now()}
}

// Checker is one health probe.
type Checker interface {
	// Name identifies the probed component.
	Name() string

	// Check performs the probe.
	Check(ctx context.Context) Result
}

// CheckFunc adapts an ordinary function to a Checker.
type CheckFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckFunc creates a Checker from a function.
func NewCheckFunc(name string, fn func(context.Context) Result) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

// Name identifies the probed component.
func (f *CheckFunc) Name() string { return f.name }

// Check performs the probe.
func (f *CheckFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}
