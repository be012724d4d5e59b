package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"azmcp/pkg/logging"
)

// Telemetry records observability data for invocations. Implementations
// must not influence control flow.
type Telemetry interface {
	// StartInvocation opens an invocation scope. The returned function is
	// called exactly once with the final status.
	StartInvocation(ctx context.Context, tool string) (context.Context, func(status int))

	// Tag attaches a key/value to the current invocation scope.
	Tag(ctx context.Context, key, value string)
}

type noopTelemetry struct{}

func (noopTelemetry) StartInvocation(ctx context.Context, _ string) (context.Context, func(int)) {
	return ctx, func(int) {}
}

func (noopTelemetry) Tag(context.Context, string, string) {}

// Phase is a stage of the execution state machine, used in logs.
type Phase string

const (
	PhaseBinding    Phase = "binding"
	PhaseValidating Phase = "validating"
	PhaseInvoking   Phase = "invoking"
)

// Executor runs invocations through bind, validate, invoke and classify.
// It holds no per-call state and is safe for concurrent use.
type Executor struct {
	telemetry Telemetry
}

// NewExecutor creates an executor. A nil telemetry disables recording.
func NewExecutor(telemetry Telemetry) *Executor {
	if telemetry == nil {
		telemetry = noopTelemetry{}
	}
	return &Executor{telemetry: telemetry}
}

// Execute runs one invocation of leaf with raw arguments.
func (e *Executor) Execute(ctx context.Context, leaf Leaf, raw map[string]any) *Response {
	start := time.Now()
	name := leaf.Descriptor.Name

	ctx, finish := e.telemetry.StartInvocation(ctx, name)
	resp := e.run(ctx, leaf, raw)
	resp.Duration = time.Since(start).Milliseconds()
	finish(resp.Status)

	return resp
}

func (e *Executor) run(ctx context.Context, leaf Leaf, raw map[string]any) *Response {
	name := leaf.Descriptor.Name

	logging.Debug("Executor", "%s: %s", name, PhaseBinding)
	opts, err := Bind(leaf.Descriptor, raw)
	if err != nil {
		return FromError(err)
	}

	for _, key := range []string{OptionSubscription, OptionTenant} {
		if v := opts.String(key); v != "" {
			e.telemetry.Tag(ctx, key, v)
		}
	}

	logging.Debug("Executor", "%s: %s", name, PhaseValidating)
	if err := validate(leaf, opts); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			err = &ValidationError{Reason: err.Error()}
		}
		logging.Debug("Executor", "%s: validation failed: %v", name, err)
		return FromError(err)
	}

	if err := ctx.Err(); err != nil {
		return Failed(err)
	}

	logging.Debug("Executor", "%s: %s", name, PhaseInvoking)
	results, err := invoke(ctx, leaf.Command, opts)
	if err != nil {
		logging.Error("Executor", err, "Command %s failed", name)
		return Failed(err)
	}
	// A cancelled call never reports success, even if the collaborator returned.
	if err := ctx.Err(); err != nil {
		return Failed(err)
	}
	return OK(results)
}

func invoke(ctx context.Context, cmd Command, opts Options) (results any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()
	return cmd.Execute(ctx, opts)
}
