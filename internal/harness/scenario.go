package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/jutus/internal/compiler"
	"github.com/roach88/jutus/internal/ir"
	"github.com/roach88/jutus/internal/lower"
)

// Scenario is one conformance case: a program, the options to lower it with
// and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ScriptPath becomes the module name. Defaults to "<name>.ir".
	ScriptPath string `yaml:"script_path,omitempty"`

	// Options selects the lowering options. Missing keys use the defaults.
	Options ScenarioOptions `yaml:"options,omitempty"`

	// Program is the IR document in the tagged form read by ir.DecodeYAMLNode.
	Program yaml.Node `yaml:"program"`

	// Expect is checked before the assertions.
	Expect ExpectClause `yaml:"expect"`

	// Assertions add finer checks on the rendered module.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ScenarioOptions mirrors the lowering options by name.
type ScenarioOptions struct {
	IfBranch string `yaml:"if_branch,omitempty"`
	Floats   string `yaml:"floats,omitempty"`
}

// ExpectClause describes the expected translation outcome. Nil lists are not
// checked; an empty list must match exactly.
type ExpectClause struct {
	// Definitions is the exact list of definition names.
	Definitions []string `yaml:"definitions,omitempty"`

	// Warnings is the exact list of warning codes.
	Warnings []string `yaml:"warnings,omitempty"`

	// Error is the expected failure. Nil means success.
	Error *ErrorExpect `yaml:"error,omitempty"`
}

// ErrorExpect names the pipeline stage and, for lowering failures, the error
// kind a translation must fail with. Empty fields are not checked.
type ErrorExpect struct {
	Stage string `yaml:"stage,omitempty"`
	Kind  string `yaml:"kind,omitempty"`
}

func (e *ErrorExpect) String() string {
	switch {
	case e.Stage != "" && e.Kind != "":
		return fmt.Sprintf("%s error %q", e.Stage, e.Kind)
	case e.Kind != "":
		return fmt.Sprintf("error %q", e.Kind)
	default:
		return fmt.Sprintf("%s error", e.Stage)
	}
}

// Assertion checks a property of the result.
type Assertion struct {
	// Type is one of source_contains, definition_order, definition_count,
	// warning.
	Type string `yaml:"type"`

	// Text is the expected substring (source_contains).
	Text string `yaml:"text,omitempty"`

	// Names is the expected order (definition_order).
	Names []string `yaml:"names,omitempty"`

	// Count is the expected definition count (definition_count).
	Count int `yaml:"count,omitempty"`

	// Code is the expected warning code (warning).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertSourceContains  = "source_contains"
	AssertDefinitionOrder = "definition_order"
	AssertDefinitionCount = "definition_count"
	AssertWarning         = "warning"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string)
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("scenario name %q used by %s and %s", s.Name, prev, p)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// ParseScenario decodes a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LowerOptions converts the scenario options.
func (s *Scenario) LowerOptions() (lower.Options, error) {
	opts := lower.DefaultOptions()
	if s.Options.IfBranch != "" {
		b, err := lower.ParseIfBranch(s.Options.IfBranch)
		if err != nil {
			return lower.Options{}, err
		}
		opts.IfBranch = b
	}
	if s.Options.Floats != "" {
		p, err := lower.ParseFloatPolicy(s.Options.Floats)
		if err != nil {
			return lower.Options{}, err
		}
		opts.Floats = p
	}
	return opts, nil
}

// IR decodes the program.
func (s *Scenario) IR() (ir.Node, error) {
	return ir.DecodeYAMLNode(&s.Program)
}

func (s *Scenario) scriptPath() string {
	if s.ScriptPath != "" {
		return s.ScriptPath
	}
	return s.Name + ".ir"
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Program.Kind == 0 {
		return fmt.Errorf("program is required")
	}
	if _, err := s.LowerOptions(); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if e := s.Expect.Error; e != nil {
		if s.Expect.Definitions != nil {
			return fmt.Errorf("expect: error and definitions are mutually exclusive")
		}
		if e.Stage == "" && e.Kind == "" {
			return fmt.Errorf("expect: error needs a stage or a kind")
		}
		if e.Stage != "" && !slices.Contains(compiler.Stages(), compiler.Stage(e.Stage)) {
			return fmt.Errorf("expect: unknown error stage %q", e.Stage)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSourceContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for source_contains", index)
		}
	case AssertDefinitionOrder:
		if len(a.Names) == 0 {
			return fmt.Errorf("assertions[%d]: names list is required for definition_order", index)
		}
	case AssertDefinitionCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for definition_count", index)
		}
	case AssertWarning:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for warning", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
