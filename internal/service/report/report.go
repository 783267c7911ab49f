package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/pkg/store"
)

// Renderer produces one report file for a finished run. The concrete
// document engine lives outside this service.
type Renderer interface {
	Render(ctx context.Context, projectName, format string, run *domain.Run) (path string, err error)
}

// Service turns a finished run into referenced report artifacts, one per
// requested format.
type Service struct {
	renderer Renderer
	store    store.Store
}

func NewService(renderer Renderer, st store.Store) *Service {
	return &Service{renderer: renderer, store: st}
}

func (s *Service) Generate(ctx context.Context, projectName string, formats []string, run *domain.Run) ([]domain.Artifact, error) {
	artifacts := make([]domain.Artifact, 0, len(formats))

	for _, format := range formats {
		path, err := s.renderer.Render(ctx, projectName, format, run)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}

		artifacts = append(artifacts, domain.Artifact{
			ID:        uuid.NewString(),
			RunID:     run.ID,
			Name:      fmt.Sprintf("%s_%s.%s", projectName, random.String(8), format),
			Format:    format,
			Path:      path,
			CreatedAt: time.Now().UTC(),
		})
	}

	if s.store != nil {
		if err := s.store.InsertArtifacts(ctx, artifacts); err != nil {
			return nil, fmt.Errorf("store.InsertArtifacts: %w", err)
		}
	}

	logger.Infof(ctx, "generated %d report artifacts for project %s", len(artifacts), projectName)

	return artifacts, nil
}

// NoopRenderer satisfies Renderer without producing files; used when the
// document engine is unavailable and in tests.
type NoopRenderer struct {
	Dir string
}

func (r NoopRenderer) Render(_ context.Context, projectName, format string, run *domain.Run) (string, error) {
	return filepath.Join(r.Dir, fmt.Sprintf("%s_%s.%s", projectName, run.ID, format)), nil
}
