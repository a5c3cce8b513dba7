package service

import (
	"context"
	"log"
	"vjbot/internal/common"
	"vjbot/internal/domain/model"
	"vjbot/internal/domain/repository"

	"github.com/gosimple/slug"
)

// AccountService manages judge credentials for chat-platform users.
type AccountService struct {
	credRepo repository.CredentialRepository
}

func NewAccountService(credRepo repository.CredentialRepository) *AccountService {
	return &AccountService{credRepo: credRepo}
}

type LinkCredentialRequest struct {
	Judge    string `json:"judge"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LinkCredential stores or overwrites the user's credential for a judge. The
// secret is persisted and never returned to the caller again.
func (s *AccountService) LinkCredential(ctx context.Context, userID string, req LinkCredentialRequest) error {
	if userID == "" || req.Judge == "" || req.Username == "" || req.Password == "" {
		return common.Errorf("judge, username and password are required: %w", common.ErrBadRequest)
	}

	cred := &model.JudgeCredential{
		UserID:   userID,
		Judge:    slug.Make(req.Judge),
		Username: req.Username,
		Secret:   req.Password,
	}
	if err := s.credRepo.Save(ctx, cred); err != nil {
		return common.Errorf("failed to save credential: %w", err)
	}
	log.Printf("INFO: Credential linked for user %s on judge %s.", userID, cred.Judge)
	return nil
}

func (s *AccountService) UnlinkCredential(ctx context.Context, userID, judgeName string) error {
	if userID == "" || judgeName == "" {
		return common.Errorf("user and judge are required: %w", common.ErrBadRequest)
	}
	if err := s.credRepo.Delete(ctx, userID, slug.Make(judgeName)); err != nil {
		return err
	}
	log.Printf("INFO: Credential unlinked for user %s on judge %s.", userID, slug.Make(judgeName))
	return nil
}
