package slurm

// State is a Slurm job state name as reported by squeue %T
// (e.g. "PENDING", "RUNNING", "COMPLETED").
type State string

// Terminal states, per the squeue JOB STATE CODES documentation.
var finishedStates = map[State]bool{
	"BOOT_FAIL":     true,
	"CANCELLED":     true,
	"COMPLETED":     true,
	"DEADLINE":      true,
	"FAILED":        true,
	"NODE_FAIL":     true,
	"OUT_OF_MEMORY": true,
	"PREEMPTED":     true,
	"SPECIAL_EXIT":  true,
	"TIMEOUT":       true,
}

// States in which the job has not begun executing and its output files may
// not exist yet.
var notStartedStates = map[State]bool{
	"PENDING":     true,
	"CONFIGURING": true,
}

// Finished reports whether the state is terminal.
func (s State) Finished() bool {
	return finishedStates[s]
}

// NotStarted reports whether the job has not begun executing.
func (s State) NotStarted() bool {
	return notStartedStates[s]
}

func (s State) String() string {
	return string(s)
}
