package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the rendered module to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Source   string // Rendered module for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Source != "" {
		fmt.Fprintf(&buf, "\nModule:\n")
		for _, line := range strings.Split(strings.TrimRight(e.Source, "\n"), "\n") {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}

	return buf.String()
}

func assertSourceContains(result *Result, a Assertion) error {
	if strings.Contains(result.Source, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertSourceContains,
		Expected: fmt.Sprintf("source containing %q", a.Text),
		Actual:   "not found",
		Source:   result.Source,
	}
}

// assertDefinitionOrder checks that names appear in the given order.
// Other definitions may appear between them.
func assertDefinitionOrder(result *Result, a Assertion) error {
	positions := make(map[string]int)
	for i, name := range result.Definitions {
		if _, ok := positions[name]; !ok {
			positions[name] = i + 1
		}
	}

	for _, name := range a.Names {
		if positions[name] == 0 {
			return &AssertionError{
				Type:     AssertDefinitionOrder,
				Expected: fmt.Sprintf("all definitions present: %v", a.Names),
				Actual:   fmt.Sprintf("missing definition: %s", name),
				Source:   result.Source,
			}
		}
	}

	for i := 1; i < len(a.Names); i++ {
		prev, curr := a.Names[i-1], a.Names[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertDefinitionOrder,
				Expected: fmt.Sprintf("definitions in order: %v", a.Names),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Source: result.Source,
			}
		}
	}
	return nil
}

func assertDefinitionCount(result *Result, a Assertion) error {
	if len(result.Definitions) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertDefinitionCount,
		Expected: fmt.Sprintf("%d definitions", a.Count),
		Actual:   fmt.Sprintf("%d definitions: %v", len(result.Definitions), result.Definitions),
		Source:   result.Source,
	}
}

func assertWarning(result *Result, a Assertion) error {
	if slices.Contains(result.Warnings, a.Code) {
		return nil
	}
	return &AssertionError{
		Type:     AssertWarning,
		Expected: fmt.Sprintf("warning %s", a.Code),
		Actual:   fmt.Sprintf("warnings %v", result.Warnings),
		Source:   result.Source,
	}
}

// checkExpect compares the translation outcome with the expect clause.
func checkExpect(result *Result, expect ExpectClause) []string {
	var errs []string

	if e := expect.Error; e != nil {
		if !result.Failed() {
			return []string{fmt.Sprintf("expected %s, translation succeeded", e)}
		}
		if (e.Stage != "" && e.Stage != result.Stage) || (e.Kind != "" && e.Kind != result.ErrorKind) {
			errs = append(errs, fmt.Sprintf("expected %s, got stage %q kind %q: %s",
				e, result.Stage, result.ErrorKind, result.Message))
		}
		return errs
	}

	if result.Failed() {
		return []string{fmt.Sprintf("unexpected %s error: %s", result.Stage, result.Message)}
	}
	if expect.Definitions != nil && !slices.Equal(expect.Definitions, result.Definitions) {
		errs = append(errs, fmt.Sprintf("definitions: expected %v, got %v", expect.Definitions, result.Definitions))
	}
	if expect.Warnings != nil && !slices.Equal(expect.Warnings, result.Warnings) {
		errs = append(errs, fmt.Sprintf("warnings: expected %v, got %v", expect.Warnings, result.Warnings))
	}
	return errs
}

// EvaluateAssertions runs all assertions against a result and returns error
// messages for the failing ones.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertSourceContains:
			err = assertSourceContains(result, a)
		case AssertDefinitionOrder:
			err = assertDefinitionOrder(result, a)
		case AssertDefinitionCount:
			err = assertDefinitionCount(result, a)
		case AssertWarning:
			err = assertWarning(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return errs
}
