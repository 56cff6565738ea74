// Package calibration defines the mutable context threaded through one
// pipeline run: the registered dataset bindings plus one write-once result
// slot per stage. Each stage mutation validates the strict forward dependency
// chain before delegating to its numerical collaborator; violations are
// SequenceErrors, which indicate caller bugs rather than bad data.
package calibration
