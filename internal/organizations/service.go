package organizations

import (
	"context"
	"errors"

	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// Service resolves callers to organizations, provisioning on first login.
type Service struct {
	repo   *Repository
	logger *logging.Logger
}

// NewService constructs an organizations service.
func NewService(repo *Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("organizations: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// EnsureForIdentity returns the membership for an authenticated identity,
// creating the organization and its admin user on first login.
func (s *Service) EnsureForIdentity(ctx context.Context, identity Identity) (*Membership, error) {
	m, err := s.repo.MembershipForIdentity(ctx, identity.ID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	m, err = s.repo.Provision(ctx, identity)
	if err != nil {
		return nil, err
	}
	s.logger.Info("organization provisioned",
		"org_id", m.OrgID,
		"user_id", m.UserID,
		"email", identity.Email,
	)
	return m, nil
}
