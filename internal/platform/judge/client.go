package judge

import (
	"context"
	"vjbot/internal/domain/model"
)

// StatusResult is one observation of a submission's state on the judge.
// Verdict may be non-terminal (Pending/Judging).
type StatusResult struct {
	Verdict  model.Verdict
	TimeMs   *int
	MemoryKb *int
}

// Client is the boundary to the external judge. Both calls may block for
// seconds; callers pass a context with a deadline.
type Client interface {
	// Submit authenticates with the user's credential and uploads the code,
	// returning the judge-issued handle. Errors wrap
	// common.ErrCredentialRejected, common.ErrInvalidProblem or
	// common.ErrUploadFailed.
	Submit(ctx context.Context, cred *model.JudgeCredential, req *model.SubmissionRequest) (model.SubmissionHandle, error)

	// Status queries the judge for the current verdict of a handle. A
	// transient tool failure wraps common.ErrUploadFailed so pollers can
	// retry it under their backoff budget.
	Status(ctx context.Context, handle model.SubmissionHandle) (*StatusResult, error)
}
