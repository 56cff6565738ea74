// Package pipeline wires the registrar → context → six stages → report
// emission sequence behind a single Orchestrator, providing dependency
// injection friendly options for every collaborator while defaulting to the
// reference engine and the built-in report formats. Stage order is fixed;
// the first failure aborts the run with the failing stage identified.
package pipeline
