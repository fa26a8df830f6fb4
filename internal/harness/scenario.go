package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/nfagrep/internal/automaton"
	"github.com/roach88/nfagrep/internal/graphspec"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Pattern is a grep-style pattern compiled into the graph under test.
	Pattern string `yaml:"pattern,omitempty"`

	// Graph is an inline declarative graph.
	Graph *graphspec.Graph `yaml:"graph,omitempty"`

	// GraphFile points to a YAML/CUE graph file.
	// Relative paths are resolved against the scenario file's directory.
	GraphFile string `yaml:"graph_file,omitempty"`

	// MaxSteps bounds every case's search. 0 means unlimited.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Cases are the inputs with expected outcomes, run in order.
	Cases []Case `yaml:"cases"`

	// Assertions inspect the trace of individual cases.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case is one input and its expected outcome.
type Case struct {
	Input  string  `yaml:"input"`
	Expect Outcome `yaml:"expect"`
}

// Outcome is the verdict of one search.
type Outcome string

const (
	OutcomeAccept Outcome = "accept"
	OutcomeReject Outcome = "reject"
	OutcomeAbort  Outcome = "abort"
)

// Assertion validates the trace of one case.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event of Kind (at State, if set) occurs
	// - "trace_order": States are visited in this relative order
	// - "trace_count": events of Kind occur exactly Count times
	Type string `yaml:"type"`

	// Input selects the case whose trace is inspected.
	Input string `yaml:"input"`

	// Kind is the trace event kind (used by trace_contains, trace_count).
	Kind automaton.TraceEventKind `yaml:"kind,omitempty"`

	// State restricts trace_contains to events at this state.
	State string `yaml:"state,omitempty"`

	// States is the expected visit order (used by trace_order).
	States []string `yaml:"states,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "case:" vs "cases:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve graph_file relative to the scenario BEFORE validation
	if scenario.GraphFile != "" && !filepath.IsAbs(scenario.GraphFile) {
		scenario.GraphFile = filepath.Join(filepath.Dir(path), scenario.GraphFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadDir loads every .yaml/.yml scenario in dir (non-recursive), sorted
// by file name. Scenario names must be unique.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	seen := make(map[string]string, len(paths))
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("duplicate scenario name %q in %s and %s", s.Name, prev, p)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	sources := 0
	if s.Pattern != "" {
		sources++
	}
	if s.Graph != nil {
		sources++
	}
	if s.GraphFile != "" {
		sources++
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of pattern, graph or graph_file is required")
	}

	if s.GraphFile != "" {
		if _, err := os.Stat(s.GraphFile); os.IsNotExist(err) {
			return fmt.Errorf("graph file not found: %s", s.GraphFile)
		}
	}

	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	inputs := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		switch c.Expect {
		case OutcomeAccept, OutcomeReject:
		case OutcomeAbort:
			if s.MaxSteps == 0 {
				return fmt.Errorf("cases[%d]: expect abort requires max_steps", i)
			}
		case "":
			return fmt.Errorf("cases[%d]: expect is required", i)
		default:
			return fmt.Errorf("cases[%d]: unknown outcome %q", i, c.Expect)
		}
		inputs[c.Input] = true
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, inputs); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, inputs map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if !inputs[a.Input] {
		return fmt.Errorf("assertions[%d]: input %q is not one of the cases", index, a.Input)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.States) == 0 {
			return fmt.Errorf("assertions[%d]: states list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
