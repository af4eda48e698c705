package usecase

import (
	"fmt"

	"github.com/fairyhunter13/resume-screener/internal/domain"
)

// CandidateService exposes read and delete access to screened candidates.
type CandidateService struct {
	Repo domain.CandidateRepository
}

// NewCandidateService constructs a CandidateService with the given repo.
func NewCandidateService(r domain.CandidateRepository) CandidateService {
	return CandidateService{Repo: r}
}

// List returns candidates scoring at least minScore, best first.
func (s CandidateService) List(ctx domain.Context, minScore int) ([]domain.Candidate, error) {
	if minScore < 0 {
		return nil, fmt.Errorf("%w: min_score must not be negative", domain.ErrInvalidArgument)
	}
	return s.Repo.List(ctx, domain.CandidateFilter{MinScore: minScore})
}

// Get loads one candidate.
func (s CandidateService) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	if id == "" {
		return domain.Candidate{}, fmt.Errorf("%w: id required", domain.ErrInvalidArgument)
	}
	return s.Repo.Get(ctx, id)
}

// Delete removes a candidate; unknown ids succeed.
func (s CandidateService) Delete(ctx domain.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id required", domain.ErrInvalidArgument)
	}
	return s.Repo.Delete(ctx, id)
}
