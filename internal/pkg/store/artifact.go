package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/store/xpgx"
)

var artifactColumns = []string{"id", "run_id", "name", "format", "path", "created_at"}

func (s *store) InsertArtifacts(ctx context.Context, artifacts []domain.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	query := builder().Insert(tableArtifacts).Columns(artifactColumns...)
	for _, a := range artifacts {
		query = query.Values(a.ID, a.RunID, a.Name, a.Format, a.Path, a.CreatedAt)
	}

	if _, err := xpgx.Execx(ctx, s.pool, query); err != nil {
		return fmt.Errorf("insertArtifacts: %w", err)
	}

	return nil
}

func (s *store) ListArtifacts(ctx context.Context, runID string) ([]domain.Artifact, error) {
	query := builder().Select(artifactColumns...).
		From(tableArtifacts).
		Where(sq.Eq{"run_id": runID}).
		OrderBy("created_at")

	rows, err := xpgx.Selectx[domain.Artifact](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	artifacts := make([]domain.Artifact, 0, len(rows))
	for _, row := range rows {
		artifacts = append(artifacts, *row)
	}

	return artifacts, nil
}
