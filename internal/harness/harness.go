package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/jutus/internal/compiler"
	"github.com/roach88/jutus/internal/ir"
	"github.com/roach88/jutus/internal/lower"
	"github.com/roach88/jutus/internal/store"
	"github.com/roach88/jutus/internal/target"
	"github.com/roach88/jutus/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Decode the program and options
// 2. Translate it through the compiler pipeline, recording the run
// 3. Check the expect clause and the recorded row
// 4. Evaluate assertions
//
// An error is returned only when the scenario cannot be run at all; a failed
// translation is an outcome recorded in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	opts, err := scenario.LowerOptions()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	program, err := scenario.IR()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: program: %w", scenario.Name, err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	c := compiler.New(
		compiler.WithFrontend(compiler.LangIR, compiler.FrontendFunc(
			func(context.Context, compiler.Source) (ir.Node, error) { return program, nil },
		)),
		compiler.WithLowering(opts),
		compiler.WithRecorder(st),
		compiler.WithRunIDs(testutil.NewSequentialRunIDs(scenario.Name)),
		compiler.WithClock(testutil.NewDeterministicClock()),
		compiler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	src := compiler.Source{
		Lang:       compiler.LangIR,
		ScriptName: scenario.Name,
		ScriptPath: scenario.scriptPath(),
	}

	result := NewResult()
	res, terr := c.Translate(ctx, src)
	if terr != nil {
		stage, _ := compiler.StageOf(terr)
		kind, _ := lower.KindOf(terr)
		result.Stage = string(stage)
		result.ErrorKind = string(kind)
		result.Message = terr.Error()
	} else {
		if err := fillResult(result, res); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	if err := checkRecorded(ctx, st, result); err != nil {
		result.AddError(err.Error())
	}
	for _, msg := range checkExpect(result, scenario.Expect) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func fillResult(result *Result, res *compiler.Result) error {
	source, err := target.Format(res.Module)
	if err != nil {
		return fmt.Errorf("render module: %w", err)
	}
	result.Source = source
	result.Definitions = res.Module.DefinitionNames()
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, w.Code)
	}
	result.RunID = res.RunID
	result.Seq = res.Seq
	return nil
}

// checkRecorded verifies that the run left exactly one row with the
// matching status.
func checkRecorded(ctx context.Context, st *store.Store, result *Result) error {
	rows, err := st.ListTranslations(ctx, 0)
	if err != nil {
		return err
	}
	if len(rows) != 1 {
		return fmt.Errorf("expected 1 recorded translation, found %d", len(rows))
	}

	row := rows[0]
	if result.Failed() {
		if row.Status != store.StatusError || row.ErrorStage != result.Stage {
			return fmt.Errorf("recorded %s/%s, expected error/%s", row.Status, row.ErrorStage, result.Stage)
		}
		return nil
	}
	if row.Status != store.StatusOK || row.ID != result.RunID {
		return fmt.Errorf("recorded %s run %s, expected ok run %s", row.Status, row.ID, result.RunID)
	}
	return nil
}
