// Package observe provides telemetry for protected remote calls: traces,
// metrics, and structured logs built on OpenTelemetry.
//
// An Observer bundles the configured providers. Instrumentation is keyed
// by CallMeta, which names the remote service and operation being
// protected:
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "records-api-client",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//
//	mw := observe.NewMiddleware(obs)
//	protected := mw.Wrap(observe.CallMeta{Service: "records-api", Operation: "fetch"}, doFetch)
//
// Middleware.OnRetry adapts the instrumentation to the retry engine's
// observation hook so every backoff is logged and counted.
package observe
