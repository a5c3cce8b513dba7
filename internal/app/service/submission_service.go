package service

import (
	"context"
	"errors"
	"log"
	"time"
	"vjbot/internal/app/poller"
	"vjbot/internal/common"
	"vjbot/internal/domain/model"
	"vjbot/internal/domain/repository"
	"vjbot/internal/platform/judge"

	"github.com/gosimple/slug"
)

// Lease guards the one-in-flight-submission-per-user invariant.
type Lease interface {
	Acquire(ctx context.Context, userID string) (token string, err error)
	Release(ctx context.Context, userID, token string) error
}

// VerdictAwaiter drives a handle to a terminal verdict. Satisfied by
// poller.Poller.
type VerdictAwaiter interface {
	Await(ctx context.Context, handle model.SubmissionHandle) (*judge.StatusResult, error)
}

// SubmissionService is the submission coordinator: credential lookup,
// per-user lease, upload with bounded retries, verdict polling, and an
// idempotent commit of the outcome.
type SubmissionService struct {
	credRepo  repository.CredentialRepository
	solveRepo repository.SolveRepository
	client    judge.Client
	awaiter   VerdictAwaiter
	lease     Lease

	uploadAttempts int
	uploadRetry    poller.Backoff

	// Injectable for deterministic tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSubmissionService(
	credRepo repository.CredentialRepository,
	solveRepo repository.SolveRepository,
	client judge.Client,
	awaiter VerdictAwaiter,
	lease Lease,
	uploadAttempts int,
	uploadRetry poller.Backoff,
) *SubmissionService {
	if uploadAttempts < 1 {
		uploadAttempts = 1
	}
	return &SubmissionService{
		credRepo:       credRepo,
		solveRepo:      solveRepo,
		client:         client,
		awaiter:        awaiter,
		lease:          lease,
		uploadAttempts: uploadAttempts,
		uploadRetry:    uploadRetry,
		now:            time.Now,
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
}

// Submit runs one submission end to end. Exactly one of a SolveRecord with a
// terminal verdict or a typed failure results from each call. The user's
// lease is released on every exit path.
func (s *SubmissionService) Submit(ctx context.Context, req *model.SubmissionRequest) (*model.SolveOutcome, error) {
	if req.UserID == "" || req.Judge == "" || req.ProblemID == "" || req.Language == "" || req.Code == "" {
		return nil, common.Errorf("user_id, judge, problem_id, language and code are required: %w", common.ErrBadRequest)
	}
	judgeKey := slug.Make(req.Judge)

	cred, err := s.credRepo.Get(ctx, req.UserID, judgeKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("no credential linked for judge %s, link your account first: %w", req.Judge, common.ErrNotFound)
		}
		return nil, common.Errorf("credential lookup: %w", err)
	}

	token, err := s.lease.Acquire(ctx, req.UserID)
	if err != nil {
		// ErrBusy passes through untouched so the dispatcher can tell the
		// user to wait for their in-flight submission.
		return nil, err
	}
	defer func() {
		// Release must run even when ctx was canceled mid-poll.
		if err := s.lease.Release(context.WithoutCancel(ctx), req.UserID, token); err != nil {
			log.Printf("ERROR: Failed to release submission lease for user %s: %v", req.UserID, err)
		}
	}()

	handle, err := s.upload(ctx, cred, req)
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: Submission %s uploaded for user %s (%s-%s).", handle, req.UserID, judgeKey, req.ProblemID)

	res, err := s.awaiter.Await(ctx, handle)
	if err != nil {
		// Timeout and cancellation both abandon the handle: no SolveRecord.
		return nil, err
	}

	rec := &model.SolveRecord{
		Handle:      handle,
		UserID:      req.UserID,
		Judge:       judgeKey,
		ProblemID:   req.ProblemID,
		Verdict:     res.Verdict,
		TimeMs:      res.TimeMs,
		MemoryKb:    res.MemoryKb,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.solveRepo.Append(ctx, rec); err != nil {
		return nil, common.Errorf("record verdict for %s: %w", handle, err)
	}
	log.Printf("INFO: Submission %s resolved to %s for user %s.", handle, res.Verdict, req.UserID)

	return &model.SolveOutcome{
		Handle:    handle,
		Judge:     judgeKey,
		ProblemID: req.ProblemID,
		Verdict:   res.Verdict,
		TimeMs:    res.TimeMs,
		MemoryKb:  res.MemoryKb,
	}, nil
}

// upload pushes the code to the judge, retrying transient failures a bounded
// number of times. Credential and problem rejections are terminal
// immediately.
func (s *SubmissionService) upload(ctx context.Context, cred *model.JudgeCredential, req *model.SubmissionRequest) (model.SubmissionHandle, error) {
	interval := s.uploadRetry.Initial
	var lastErr error
	for attempt := 1; attempt <= s.uploadAttempts; attempt++ {
		handle, err := s.client.Submit(ctx, cred, req)
		if err == nil {
			return handle, nil
		}
		if !errors.Is(err, common.ErrUploadFailed) {
			return "", err
		}
		lastErr = err
		if attempt == s.uploadAttempts {
			break
		}
		log.Printf("WARN: Upload attempt %d/%d failed for user %s: %v", attempt, s.uploadAttempts, req.UserID, err)
		if err := s.sleep(ctx, interval); err != nil {
			return "", err
		}
		interval = s.uploadRetry.Next(interval)
	}
	return "", common.Errorf("upload failed after %d attempts: %w", s.uploadAttempts, lastErr)
}
