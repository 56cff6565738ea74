package calibration

import "fmt"

// Stage identifies one ordered step of the calibration pipeline.
type Stage int

const (
	StageReduction Stage = iota + 1
	StageSensitivity
	StageRetention
	StageSurrogate
	StageTraining
	StageCalibration
)

// Stages lists every stage in execution order.
func Stages() []Stage {
	return []Stage{
		StageReduction,
		StageSensitivity,
		StageRetention,
		StageSurrogate,
		StageTraining,
		StageCalibration,
	}
}

func (s Stage) String() string {
	switch s {
	case StageReduction:
		return "reduction"
	case StageSensitivity:
		return "sensitivity analysis"
	case StageRetention:
		return "factor retention"
	case StageSurrogate:
		return "surrogate specification"
	case StageTraining:
		return "training"
	case StageCalibration:
		return "calibration"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// SequenceError reports a stage invoked while the dependency chain does not
// permit it: either an upstream slot is still empty or the stage's own slot
// is already populated (slots are write-once per run).
type SequenceError struct {
	Stage Stage
	// Missing is the first unpopulated upstream stage, or zero when the
	// violation is a repeated invocation.
	Missing Stage
}

func (e *SequenceError) Error() string {
	if e.Missing != 0 {
		return fmt.Sprintf("calibration: %s invoked before %s completed", e.Stage, e.Missing)
	}
	return fmt.Sprintf("calibration: %s already completed for this run", e.Stage)
}
