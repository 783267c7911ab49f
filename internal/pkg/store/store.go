package store

import (
	"context"

	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	InsertCatalog(ctx context.Context, version string, entries []domain.CanonicalRoomType) error
	GetCatalogEntries(ctx context.Context, version string) ([]domain.CanonicalRoomType, error)

	UpsertCostFactors(ctx context.Context, tableVersion string, factors []domain.CostFactor) error
	ListCostFactors(ctx context.Context, tableVersion string) ([]domain.CostFactor, error)

	InsertRun(ctx context.Context, run *domain.Run) error
	UpdateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	InsertArtifacts(ctx context.Context, artifacts []domain.Artifact) error
	ListArtifacts(ctx context.Context, runID string) ([]domain.Artifact, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
