package model

import "time"

// LeaderboardEntry is derived from SolveRecord, never stored. Ordered by
// distinct accepted problems descending, ties broken by earliest accepted
// submission.
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	UserID          string    `json:"user_id"`
	ProblemsSolved  int       `json:"problems_solved"`
	FirstAcceptedAt time.Time `json:"first_accepted_at"`
}
