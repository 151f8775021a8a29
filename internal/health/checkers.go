// SPDX-License-Identifier: MIT

package health

import (
	"context"

	"github.com/ManuGH/ovpmedia/internal/resilience"
)

// BreakerChecker reports the upstream circuit breaker. An open breaker makes
// the server unready; half-open is degraded.
type BreakerChecker struct {
	name  string
	state func() resilience.State
}

// NewBreakerChecker wraps a breaker state source.
func NewBreakerChecker(name string, state func() resilience.State) *BreakerChecker {
	return &BreakerChecker{name: name, state: state}
}

func (c *BreakerChecker) Name() string { return c.name }

func (c *BreakerChecker) Check(context.Context) CheckResult {
	switch s := c.state(); s {
	case resilience.StateOpen:
		return CheckResult{Status: StatusUnhealthy, Message: "circuit open"}
	case resilience.StateHalfOpen:
		return CheckResult{Status: StatusDegraded, Message: "circuit half-open"}
	default:
		return CheckResult{Status: StatusHealthy, Message: string(s)}
	}
}

// Pinger is implemented by backends with a reachability probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker reports a shared dependency such as the token cache. A failed
// ping degrades the server since loads still work without the cache.
type PingChecker struct {
	name   string
	pinger Pinger
}

func NewPingChecker(name string, p Pinger) *PingChecker {
	return &PingChecker{name: name, pinger: p}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if err := c.pinger.Ping(ctx); err != nil {
		return CheckResult{Status: StatusDegraded, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}
