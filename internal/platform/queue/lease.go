package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"vjbot/internal/common"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SubmissionLease serializes submissions per user. VJudge sessions are
// per-account, so two in-flight submissions with the same credential step on
// each other; the lease rejects the second one instead of queueing it.
//
// Implemented as SET NX with a TTL and a compare-and-delete release, so
// cross-user parallelism is untouched and a crashed coordinator frees its
// user after the TTL.
type SubmissionLease struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSubmissionLease(rdb *redis.Client, ttl time.Duration) *SubmissionLease {
	return &SubmissionLease{rdb: rdb, ttl: ttl}
}

func leaseKey(userID string) string {
	return "submit_lease:" + userID
}

// Release only deletes the key if it still holds our token, otherwise a
// lease that expired and was re-acquired by a later call would be stolen.
var releaseScript = redis.NewScript(`
    if redis.call("get", KEYS[1]) == ARGV[1] then
        return redis.call("del", KEYS[1])
    else
        return 0
    end
`)

// Acquire claims the user's submission slot. Returns common.ErrBusy when the
// user already has a submission in flight.
func (l *SubmissionLease) Acquire(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, leaseKey(userID), token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("SubmissionLease.Acquire: %w", err)
	}
	if !ok {
		return "", common.ErrBusy
	}
	return token, nil
}

// Release frees the user's slot. Called on every exit path of a submission;
// a lease already expired or held by someone else is logged, not an error
// for the caller.
func (l *SubmissionLease) Release(ctx context.Context, userID, token string) error {
	deleted, err := releaseScript.Run(ctx, l.rdb, []string{leaseKey(userID)}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("SubmissionLease.Release: %w", err)
	}
	if n, ok := deleted.(int64); ok && n == 0 {
		log.Printf("WARN: Lease for user %s was not held at release; it may have expired.", userID)
	}
	return nil
}
