package model

// Verdict is the judge's classification of a submission. Pending and Judging
// are intermediate; everything else is terminal.
type Verdict string

const (
	VerdictPending           Verdict = "Pending"
	VerdictJudging           Verdict = "Judging"
	VerdictAccepted          Verdict = "Accepted"
	VerdictWrongAnswer       Verdict = "WrongAnswer"
	VerdictRuntimeError      Verdict = "RuntimeError"
	VerdictTimeLimitExceeded Verdict = "TimeLimitExceeded"
	VerdictCompileError      Verdict = "CompileError"
	VerdictSystemError       Verdict = "SystemError"
)

// Terminal reports whether the judge will not change this verdict anymore.
func (v Verdict) Terminal() bool {
	switch v {
	case VerdictPending, VerdictJudging:
		return false
	}
	return true
}

// SubmissionHandle correlates an uploaded submission with its eventual
// verdict. Opaque; issued by the external judge, used as the dedup key when
// the verdict is committed.
type SubmissionHandle string

// SubmissionRequest is the per-invocation value object. Not persisted.
type SubmissionRequest struct {
	UserID    string `json:"user_id"`
	Judge     string `json:"judge"`
	ProblemID string `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// SolveOutcome is what a submit call resolves to once the judge is done.
type SolveOutcome struct {
	Handle    SubmissionHandle `json:"handle"`
	Judge     string           `json:"judge"`
	ProblemID string           `json:"problem_id"`
	Verdict   Verdict          `json:"verdict"`
	TimeMs    *int             `json:"time_ms,omitempty"`
	MemoryKb  *int             `json:"memory_kb,omitempty"`
}

// Accepted is a convenience for renderers picking embed colors.
func (o *SolveOutcome) Accepted() bool {
	return o.Verdict == VerdictAccepted
}
