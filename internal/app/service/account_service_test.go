package service

import (
	"context"
	"encoding/json"
	"testing"
	"vjbot/internal/common"
	"vjbot/internal/domain/model"

	"github.com/stretchr/testify/require"
)

func TestLinkCredentialCanonicalizesJudge(t *testing.T) {
	repo := &fakeCredRepo{creds: map[string]*model.JudgeCredential{}}
	svc := NewAccountService(repo)

	err := svc.LinkCredential(context.Background(), "u1", LinkCredentialRequest{
		Judge: "CodeForces", Username: "alice", Password: "hunter2",
	})
	require.NoError(t, err)

	cred, err := repo.Get(context.Background(), "u1", "codeforces")
	require.NoError(t, err)
	require.Equal(t, "alice", cred.Username)
	require.Equal(t, "hunter2", cred.Secret)
}

func TestLinkCredentialOverwritesOnRelink(t *testing.T) {
	repo := &fakeCredRepo{creds: map[string]*model.JudgeCredential{}}
	svc := NewAccountService(repo)
	ctx := context.Background()

	require.NoError(t, svc.LinkCredential(ctx, "u1", LinkCredentialRequest{Judge: "CF", Username: "alice", Password: "old"}))
	require.NoError(t, svc.LinkCredential(ctx, "u1", LinkCredentialRequest{Judge: "CF", Username: "alice2", Password: "new"}))

	cred, err := repo.Get(ctx, "u1", "cf")
	require.NoError(t, err)
	require.Equal(t, "alice2", cred.Username)
	require.Equal(t, "new", cred.Secret)
}

func TestLinkCredentialRejectsMissingFields(t *testing.T) {
	svc := NewAccountService(&fakeCredRepo{creds: map[string]*model.JudgeCredential{}})

	err := svc.LinkCredential(context.Background(), "u1", LinkCredentialRequest{Judge: "CF", Username: "alice"})
	require.ErrorIs(t, err, common.ErrBadRequest)
}

func TestUnlinkCredentialNotLinked(t *testing.T) {
	svc := NewAccountService(&fakeCredRepo{creds: map[string]*model.JudgeCredential{}})

	err := svc.UnlinkCredential(context.Background(), "u1", "CF")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCredentialNeverSerializedOut(t *testing.T) {
	// The json tag on Secret is the last line of defense against a handler
	// echoing a stored credential back to the chat platform.
	cred := &model.JudgeCredential{UserID: "u1", Judge: "cf", Username: "alice", Secret: "hunter2"}
	out, err := json.Marshal(cred)
	require.NoError(t, err)
	require.NotContains(t, string(out), "hunter2")
	require.Contains(t, string(out), "alice")
}
