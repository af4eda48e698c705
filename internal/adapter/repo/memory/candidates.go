// Package memory provides process-local repository adapters.
//
// Data lives only as long as the process; restarting the server empties it.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/resume-screener/internal/domain"
)

// CandidateRepo keeps screened candidates in a map guarded by a RWMutex.
type CandidateRepo struct {
	mu    sync.RWMutex
	items map[string]domain.Candidate
	now   func() time.Time
}

// NewCandidateRepo constructs an empty CandidateRepo.
func NewCandidateRepo() *CandidateRepo {
	return &CandidateRepo{items: make(map[string]domain.Candidate), now: time.Now}
}

// Insert stores c and returns it with ID and UploadedAt filled in when empty.
func (r *CandidateRepo) Insert(ctx domain.Context, c domain.Candidate) (domain.Candidate, error) {
	_, span := otel.Tracer("repo.candidates").Start(ctx, "candidates.Insert")
	defer span.End()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.UploadedAt.IsZero() {
		c.UploadedAt = r.now().UTC()
	}
	span.SetAttributes(attribute.String("candidate.id", c.ID))

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[c.ID]; exists {
		return domain.Candidate{}, fmt.Errorf("op=candidate.insert: duplicate id %s: %w", c.ID, domain.ErrInvalidArgument)
	}
	r.items[c.ID] = c
	return c, nil
}

// List returns candidates whose MatchScore is at least f.MinScore, highest
// score first. Ties keep upload order so paging output is stable.
func (r *CandidateRepo) List(ctx domain.Context, f domain.CandidateFilter) ([]domain.Candidate, error) {
	_, span := otel.Tracer("repo.candidates").Start(ctx, "candidates.List")
	defer span.End()

	r.mu.RLock()
	out := make([]domain.Candidate, 0, len(r.items))
	for _, c := range r.items {
		if c.MatchScore >= f.MinScore {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.Before(out[j].UploadedAt)
		}
		return out[i].ID < out[j].ID
	})
	span.SetAttributes(attribute.Int("candidates.count", len(out)))
	return out, nil
}

// Get loads a candidate by id.
func (r *CandidateRepo) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	_, span := otel.Tracer("repo.candidates").Start(ctx, "candidates.Get")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return domain.Candidate{}, fmt.Errorf("op=candidate.get: %w", domain.ErrNotFound)
	}
	return c, nil
}

// Delete removes a candidate. Deleting an unknown id is not an error.
func (r *CandidateRepo) Delete(ctx domain.Context, id string) error {
	_, span := otel.Tracer("repo.candidates").Start(ctx, "candidates.Delete")
	defer span.End()

	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
	return nil
}

// Count returns the number of stored candidates.
func (r *CandidateRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
