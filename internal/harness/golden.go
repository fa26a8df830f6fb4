package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders every case trace of a result as text, in case order.
//
// Format:
//
//	== <name>
//	-- case <i> <input> (expect <outcome>)
//	<trace lines>
func Snapshot(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "== %s\n", result.Scenario)
	for i, c := range result.Cases {
		fmt.Fprintf(&buf, "-- case %d %q (expect %s)\n", i, c.Input, c.Expect)
		if c.Trace == nil {
			continue
		}
		if err := c.Trace.WriteText(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares the traces against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot be run.
// Test failure (via goldie) occurs if the traces don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snap, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snap)

	return nil
}
