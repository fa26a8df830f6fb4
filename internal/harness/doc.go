// Package harness runs conformance scenarios against the automaton engine.
//
// A scenario names one graph, given either as a grep pattern or as an
// inline declarative graph, and a list of inputs with their expected
// outcomes. Optional assertions inspect the search trace of a case.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: epsilon_self_loop
//	description: "ε self-loop between consuming edges"
//	graph:
//	  states: [q0, q1, q2]
//	  initial: q0
//	  accepting: [q2]
//	  transitions:
//	    - {from: q0, to: q1, char: "a"}
//	    - {from: q1, to: q1, epsilon: true}
//	    - {from: q1, to: q2, char: "b"}
//	max_steps: 1000
//	cases:
//	  - {input: "ab", expect: accept}
//	  - {input: "a", expect: reject}
//	assertions:
//	  - type: trace_count
//	    input: "ab"
//	    kind: skip_epsilon
//	    count: 1
//
// graph_file may be used instead of graph; it is resolved relative to the
// scenario file.
//
// # Outcomes
//
//   - accept: the search reached an accepting state
//   - reject: the search exhausted every path
//   - abort: the step budget ran out (requires max_steps)
//
// # Assertion Types
//
//   - trace_contains: an event of the given kind (and state, if set) occurs
//   - trace_order: the given states are visited in this relative order
//   - trace_count: events of the given kind occur exactly N times
//
// # Deterministic Testing
//
// Traces are stamped by the engine's per-query logical clock, so the same
// scenario always produces byte-identical golden output.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/scenario_b.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
