// Package harness runs replace-by-rule scenarios.
//
// A scenario pairs an input text and a rule set with the expected output,
// log lines or error. Each run uses a fresh in-memory store, a fixed run ID
// and a logical clock starting at 0, so its trace is byte-for-byte
// reproducible and can be compared against a golden file.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	input: "aceg aceg ACEG **"
//	rules:                       # inline raw rule tree, or
//	  - ["@all", c, d]
//	rules_file: rules.txt        # a rule file relative to the scenario
//	mode: auto                   # decoding mode for rules_file
//	verbosity: 1
//	expect:
//	  output: "bdfh adeh ACEh -**-"
//	  log:
//	    - "Found 'c', replace: 'd'  //@all"
//	  error: ""                  # substring of the expected load/run error
package harness
