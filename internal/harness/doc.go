// Package harness runs conformance scenarios for the lowering pipeline.
//
// A scenario is a YAML file holding an IR program, the lowering options to
// use and what the translation must produce:
//
//	name: max_then
//	description: "then arm feeds the branch when if_branch is then"
//	options:
//	  if_branch: then
//	program:
//	  kind: script
//	  body:
//	    - kind: fun_def
//	      name: max
//	      ...
//	expect:
//	  definitions: [max]
//	  warnings: []
//	assertions:
//	  - type: source_contains
//	    text: "if a >= b"
//
// Failing translations are expected with expect.error, which matches either
// the failed stage ("lower", "backend", ...) or the lowering error kind
// ("expecting_fun_def", "not_implemented", ...).
//
// # Assertion Types
//
//   - source_contains: the rendered module contains text
//   - definition_order: names appear in this order (gaps allowed)
//   - definition_count: the module has exactly count definitions
//   - warning: a diagnostic with code was reported
//
// # Deterministic Runs
//
// Every scenario runs against a fresh in-memory store with a deterministic
// clock and sequential run ids, so rendered output and recorded rows are
// identical across runs. RunWithGolden compares the rendered module against
// testdata/golden/<name>.golden.
package harness
