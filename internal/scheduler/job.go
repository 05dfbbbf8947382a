package scheduler

import (
	"context"
	"time"
)

// Job is one piece of periodic work. Schedule uses the six-field cron form
// ("0 0 8 * * *") or a descriptor such as "@every 10m".
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) error
}

// JobResult is the outcome of a run, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

const maxHistory = 100

// runLog keeps the most recent maxHistory results of a job, oldest first.
// Callers synchronise access.
type runLog struct {
	results []JobResult
	failed  int
}

func (l *runLog) record(r JobResult) {
	l.results = append(l.results, r)
	if !r.Success {
		l.failed++
	}
	if over := len(l.results) - maxHistory; over > 0 {
		for _, dropped := range l.results[:over] {
			if !dropped.Success {
				l.failed--
			}
		}
		l.results = append([]JobResult(nil), l.results[over:]...)
	}
}

func (l *runLog) snapshot() []JobResult {
	return append([]JobResult{}, l.results...)
}

func (l *runLog) last() (JobResult, bool) {
	if len(l.results) == 0 {
		return JobResult{}, false
	}
	return l.results[len(l.results)-1], true
}

func (l *runLog) stats(name, schedule string) JobStats {
	st := JobStats{
		JobName:      name,
		Schedule:     schedule,
		TotalRuns:    len(l.results),
		FailureCount: l.failed,
		SuccessCount: len(l.results) - l.failed,
	}
	if st.TotalRuns > 0 {
		st.SuccessRate = float64(st.SuccessCount) / float64(st.TotalRuns)
	}
	if r, ok := l.last(); ok {
		at := r.StartTime
		st.LastRun = &at
		if r.Success {
			st.LastSuccess = &at
		} else {
			st.LastFailure = &at
		}
	}
	return st
}

// JobStats summarises the retained history of a job
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
}
