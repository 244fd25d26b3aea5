package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/woodtong/storefront/internal/core/domain"
	"github.com/woodtong/storefront/internal/core/ports"
)

// ProspectDedup abstracts the duplicate-submission store (Redis).
type ProspectDedup interface {
	IsDuplicate(ctx context.Context, email string) (bool, error)
	Mark(ctx context.Context, email string) error
}

type prospectService struct {
	repo  ports.ProspectRepository
	dedup ProspectDedup
	log   zerolog.Logger
}

// NewProspectService returns a ProspectService backed by the given repository
// and dedup checker.
func NewProspectService(repo ports.ProspectRepository, dedup ProspectDedup, log zerolog.Logger) ports.ProspectService {
	return &prospectService{repo: repo, dedup: dedup, log: log}
}

// Register captures a lead from the storefront coupon modal. Resubmitting the
// same email within the dedup window is reported as not-created rather than
// inserting a second row.
func (s *prospectService) Register(ctx context.Context, fullName, email, phone string) (bool, error) {
	email = domain.NormalizeEmail(email)

	isDup, err := s.dedup.IsDuplicate(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("prospect dedup check failed, capturing anyway")
	} else if isDup {
		s.log.Debug().Str("email", email).Msg("duplicate prospect skipped")
		return false, nil
	}

	prospect := &domain.Prospect{
		FullName: fullName,
		Email:    email,
		Phone:    phone,
	}
	if err := s.repo.Insert(ctx, prospect); err != nil {
		return false, fmt.Errorf("register prospect: %w", err)
	}

	if markErr := s.dedup.Mark(ctx, email); markErr != nil {
		s.log.Warn().Err(markErr).Msg("failed to set prospect dedup key")
	}

	return true, nil
}
