package model

import "time"

// JudgeCredential links a chat-platform user to an account on the external
// judge. One credential per (user, judge) pair; re-linking overwrites.
type JudgeCredential struct {
	UserID    string    `json:"user_id"`
	Judge     string    `json:"judge"`
	Username  string    `json:"username"`
	Secret    string    `json:"-"` // Never exposed once stored
	UpdatedAt time.Time `json:"updated_at"`
}
