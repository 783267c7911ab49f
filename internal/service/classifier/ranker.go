package classifier

import (
	"context"

	"github.com/tgaplan/estimator/internal/domain"
)

// Ranker is the injected semantic disambiguation capability. Implementations
// rank the supplied candidates for a raw room name and return them best-first
// with a confidence in [0,1] as each candidate's score. The classifier treats
// every Ranker failure as non-fatal.
type Ranker interface {
	Rank(ctx context.Context, roomName string, candidates []domain.Candidate) ([]domain.Candidate, error)
}
