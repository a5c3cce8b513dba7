package model

import "time"

// SolveRecord is the durable outcome of one judged submission. Exactly one
// row exists per SubmissionHandle; the leaderboard counts distinct accepted
// problems, so duplicate accepted submissions add rows but not score.
type SolveRecord struct {
	Handle      SubmissionHandle `json:"handle"`
	UserID      string           `json:"user_id"`
	Judge       string           `json:"judge"`
	ProblemID   string           `json:"problem_id"`
	Verdict     Verdict          `json:"verdict"`
	TimeMs      *int             `json:"time_ms,omitempty"`
	MemoryKb    *int             `json:"memory_kb,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
}
