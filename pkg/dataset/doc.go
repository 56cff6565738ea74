// Package dataset normalises the raw per-run file-path arguments into an
// ordered set of immutable dataset bindings. Each binding pairs one
// observation file with one simulation file plus optional input and
// boundary-condition covariates. Singleton input/boundary lists broadcast to
// the observation count; any other mismatch is an ArityError raised before
// anything else in the run happens. The registrar never opens files — loading
// is the engine's concern.
package dataset
