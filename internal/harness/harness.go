package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/spiral/internal/auth"
	"github.com/roach88/spiral/internal/engine"
	"github.com/roach88/spiral/internal/ir"
	"github.com/roach88/spiral/internal/issuer"
	"github.com/roach88/spiral/internal/store"
	"github.com/roach88/spiral/internal/testutil"
)

// Harness runs one scenario against a real engine with a fixed clock,
// sequential operation ids and a recording issuer.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	clock  *testutil.FixedClock
	issuer *issuer.Recorder
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database. A step whose outcome
// differs from its expectation is recorded as a result error and the run
// continues. Malformed step arguments abort the run with an error.
func Run(scenario *Scenario) (*Result, error) {
	now, err := scenario.now()
	if err != nil {
		return nil, fmt.Errorf("invalid now: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  testutil.NewFixedClock(now),
		issuer: issuer.NewRecorder(),
	}
	for _, n := range scenario.IssuerFailures {
		h.issuer.FailFor(ir.Name(n))
	}

	opts := []engine.EngineOption{
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithClock(h.clock),
		engine.WithIssuer(h.issuer),
		engine.WithOpIDGenerator(engine.NewSequenceGenerator("op")),
		engine.WithTrustedIssuers(names(scenario.TrustedIssuers)...),
	}
	if scenario.Admin != "" {
		opts = append(opts, engine.WithAdmin(ir.Name(scenario.Admin)))
	}
	if scenario.LegacyCompletion {
		opts = append(opts, engine.WithLegacyAutomaticCompletion())
	}
	h.engine = engine.New(st, opts...)

	ctx := context.Background()
	for _, a := range scenario.Accounts {
		if err := h.engine.AddAccount(ctx, ir.Name(a)); err != nil {
			return nil, fmt.Errorf("failed to register account %q: %w", a, err)
		}
	}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, err
	}

	for _, msg := range h.evaluateAssertions(ctx, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeSteps runs steps in order and appends one trace entry per step.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	var lastSeq int64
	for i, step := range steps {
		signed := auth.WithSigners(ctx, names(step.As)...)
		stepErr := operations[step.Op](signed, h, step.Args)

		var argErr *argError
		if errors.As(stepErr, &argErr) {
			return fmt.Errorf("steps[%d] %s: %w", i, step.Op, stepErr)
		}

		entry := StepTrace{Index: i + 1, Op: step.Op, Error: kindName(stepErr)}
		issued, err := h.engine.ListIssuances(ctx, lastSeq)
		if err != nil {
			return fmt.Errorf("steps[%d]: read issuances: %w", i, err)
		}
		if len(issued) > 0 {
			entry.Issuances = issued
			lastSeq = issued[len(issued)-1].Seq
		}
		result.Trace = append(result.Trace, entry)

		want := ""
		if step.Expect != nil {
			want = step.Expect.Error
		}
		if entry.Error != want {
			result.AddError(fmt.Sprintf("step #%d %s: expected %s, got %s (%v)",
				entry.Index, step.Op, outcome(want), outcome(entry.Error), stepErr))
		}
	}
	return nil
}

// kindName maps an operation error to its trace label. Errors outside the
// engine taxonomy are reported as "internal".
func kindName(err error) string {
	if err == nil {
		return ""
	}
	if kind := engine.KindOf(err); kind != "" {
		return string(kind)
	}
	return "internal"
}

func outcome(kind string) string {
	if kind == "" {
		return "ok"
	}
	return "error=" + kind
}

func names(ss []string) []ir.Name {
	out := make([]ir.Name, 0, len(ss))
	for _, s := range ss {
		out = append(out, ir.Name(s))
	}
	return out
}
