package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
)

// MintService defines the methods of the application layer to mint tokens
// on attestation of external events.
type MintService interface {
	// MintWithCompose credits amount to recipient if externalRef was never
	// consumed before. An empty tag falls back to the default project tag.
	MintWithCompose(
		ctx context.Context, caller, recipient string, amount uint64,
		externalRef, tag string,
	) (*domain.MintRecord, error)
	GetMintRecord(ctx context.Context, externalRef string) (*domain.MintRecord, error)
	ListMints(
		ctx context.Context, tag string, page *domain.Page,
	) ([]domain.MintRecord, error)
}

type mintService struct {
	repoManager ports.RepoManager
	roles       Roles
	defaultTag  string
}

// NewMintService is a constructor function for MintService.
func NewMintService(
	repoManager ports.RepoManager, roles Roles, defaultTag string,
) MintService {
	return &mintService{repoManager, roles, defaultTag}
}

func (s *mintService) MintWithCompose(
	ctx context.Context, caller, recipient string, amount uint64,
	externalRef, tag string,
) (*domain.MintRecord, error) {
	if !s.roles.CanMint(caller) {
		return nil, domain.ErrUnauthorized
	}
	if len(tag) <= 0 {
		tag = s.defaultTag
	}

	record, err := domain.NewMintRecord(externalRef, recipient, amount, tag)
	if err != nil {
		return nil, err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.MintRepository().AddMintRecord(
				ctx, *record,
			); err != nil {
				return nil, err
			}
			if err := credit(ctx, s.repoManager, recipient, amount); err != nil {
				return nil, err
			}
			return nil, updateSupply(ctx, s.repoManager, func(supply *domain.Supply) error {
				return supply.AddMinted(amount)
			})
		},
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"ref":       externalRef,
		"recipient": recipient,
		"amount":    amount,
		"tag":       tag,
	}).Info("mint authorized")
	return record, nil
}

func (s *mintService) GetMintRecord(
	ctx context.Context, externalRef string,
) (*domain.MintRecord, error) {
	record, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.MintRepository().GetMintRecord(ctx, externalRef)
		},
	)
	if err != nil {
		return nil, err
	}
	return record.(*domain.MintRecord), nil
}

func (s *mintService) ListMints(
	ctx context.Context, tag string, page *domain.Page,
) ([]domain.MintRecord, error) {
	records, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.MintRepository().ListMintRecords(ctx, tag, page)
		},
	)
	if err != nil {
		return nil, err
	}
	return records.([]domain.MintRecord), nil
}
