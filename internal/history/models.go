package history

import "time"

// Mode is the kind of work a run performed.
type Mode string

const (
	ModeExtract Mode = "extract"
	ModePack    Mode = "pack"
	ModeRun     Mode = "run"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one ledger row.
type Run struct {
	ID            string
	Mode          Mode
	Status        Status
	Source        string
	Destination   string
	Frames        int
	BytesAppended int64
	ErrorKind     string
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// Duration returns how long the run took, or zero while it is still running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome is what Finish records.
type Outcome struct {
	Frames        int
	BytesAppended int64
	Err           error
}
