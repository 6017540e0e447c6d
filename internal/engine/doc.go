// Package engine applies canonical rules to text.
//
// Execution is strictly sequential: rule i+1 sees the output of rule i,
// and every rule runs whether or not the previous one matched. There is no
// hidden state, so the same input and rules always produce the same output.
//
// For each rule the engine compares the new text with the text as it stood
// after the last matching rule. A change logs a Found line, no change logs a
// Not found line at the highest verbosity. Inert rules are skipped before
// that comparison and never log.
//
// Logging is a synchronous callback. The engine never buffers lines and
// performs no I/O of its own.
//
// Step sequence numbers come from a logical Clock, never from wall time,
// so recorded runs compare equal across replays.
package engine
