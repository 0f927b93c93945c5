// Package health exposes the state of resilience components as health
// checks suitable for liveness and readiness probes.
//
// A Checker reports one component's Status: Healthy, Degraded, or
// Unhealthy. Checkers exist for circuit breakers, rate limiters, and
// bulkheads; NewCheckerFunc adapts any function for custom checks.
//
// # Basic Usage
//
//	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})
//	check := health.NewBreakerChecker("records-api", breaker)
//
//	result := check.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("breaker open: %s", result.Message)
//	}
//
// # Aggregating Checks
//
// Use Aggregator to combine component checks into one composite view:
//
//	agg := health.NewAggregator()
//	agg.Register("breaker", health.NewBreakerChecker("records-api", breaker))
//	agg.Register("limiter", health.NewLimiterChecker("records-api", limiter))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// The package provides handlers for common probe patterns:
//
//	http.Handle("/healthz", health.LivenessHandler())
//	http.Handle("/readyz", health.ReadinessHandler(agg))
//	http.Handle("/health", health.DetailedHandler(agg))
package health
