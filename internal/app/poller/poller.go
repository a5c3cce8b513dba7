package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"vjbot/internal/common"
	"vjbot/internal/domain/model"
	"vjbot/internal/platform/judge"
)

// Backoff describes the polling cadence: start at Initial, grow by
// Multiplier up to Max, give up after Deadline of wall-clock time.
type Backoff struct {
	Initial    time.Duration
	Multiplier float64
	Max        time.Duration
	Deadline   time.Duration
}

// Next returns the interval to wait after one that took d.
func (b Backoff) Next(d time.Duration) time.Duration {
	next := time.Duration(float64(d) * b.Multiplier)
	if next > b.Max {
		next = b.Max
	}
	if next < d {
		// Multiplier below 1 would shrink the interval; hold instead.
		next = d
	}
	return next
}

// Poller drives a SubmissionHandle to a terminal verdict by repeatedly
// querying the judge. Transient status failures count against the same
// deadline as slow judging; neither is retried forever.
type Poller struct {
	client judge.Client
	policy Backoff

	// Injectable for deterministic tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(client judge.Client, policy Backoff) *Poller {
	return &Poller{
		client: client,
		policy: policy,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Await polls until the judge reports a terminal verdict or the deadline
// elapses, whichever first. On deadline it returns common.ErrJudgeTimeout
// and the handle is abandoned; a verdict arriving later is not observed.
func (p *Poller) Await(ctx context.Context, handle model.SubmissionHandle) (*judge.StatusResult, error) {
	deadline := p.now().Add(p.policy.Deadline)
	interval := p.policy.Initial

	for {
		res, err := p.client.Status(ctx, handle)
		switch {
		case err == nil && res.Verdict.Terminal():
			return res, nil
		case err == nil:
			// Still judging; fall through to the wait.
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, common.ErrUploadFailed):
			// A flaky status endpoint is indistinguishable from slow
			// judging for our purposes; keep polling within the budget.
			log.Printf("WARN: Transient status failure for %s: %v", handle, err)
		default:
			return nil, err
		}

		remaining := deadline.Sub(p.now())
		if remaining <= 0 {
			return nil, fmt.Errorf("no terminal verdict for %s within %s: %w", handle, p.policy.Deadline, common.ErrJudgeTimeout)
		}
		wait := interval
		if wait > remaining {
			wait = remaining
		}
		if err := p.sleep(ctx, wait); err != nil {
			return nil, err
		}
		interval = p.policy.Next(interval)
	}
}
