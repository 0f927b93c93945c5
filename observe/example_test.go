package observe_test

import (
	"context"
	"fmt"

	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/oakmount/ward/failure"
	"github.com/oakmount/ward/observe"
)

func ExampleCallMeta_SpanName() {
	meta := observe.CallMeta{Service: "records-api", Operation: "fetch"}
	fmt.Println(meta.SpanName())

	// Output:
	// remote.call.records-api.fetch
}

func ExampleMiddleware_Wrap() {
	mw := observe.NewMiddlewareWith(
		observe.NewTracer(tracenoop.NewTracerProvider().Tracer("example")),
		observe.NoopMetrics{},
		observe.NopLogger(),
	)

	meta := observe.CallMeta{Service: "records-api", Operation: "fetch"}
	call := mw.Wrap(meta, func(ctx context.Context) error {
		return failure.New(failure.CodeTimeout, "deadline hit")
	})

	err := call(context.Background())
	fmt.Println(err)

	// Output:
	// timeout: deadline hit
}
