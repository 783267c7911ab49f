package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/domain/dto"
	"github.com/tgaplan/estimator/internal/pkg/constants"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/pkg/store"
	"github.com/tgaplan/estimator/internal/service/bki"
	"github.com/tgaplan/estimator/internal/service/catalog"
	"github.com/tgaplan/estimator/internal/service/pipeline"
	"github.com/tgaplan/estimator/internal/service/report"
)

type Controller struct {
	orchestrator *pipeline.Orchestrator
	report       *report.Service
	importer     *bki.Service
	store        store.Store
}

func NewController(orchestrator *pipeline.Orchestrator, reportService *report.Service, importer *bki.Service, st store.Store) *Controller {
	return &Controller{
		orchestrator: orchestrator,
		report:       reportService,
		importer:     importer,
		store:        st,
	}
}

// loadCatalog builds a catalog from an inline mapping or loads a stored
// version. Inline mappings are persisted best-effort so later stages can
// reference them by version.
func (c *Controller) loadCatalog(ctx context.Context, version string, mapping []dto.RoomTypeEntry) (*catalog.Catalog, error) {
	if len(mapping) > 0 {
		entries := make([]domain.CanonicalRoomType, 0, len(mapping))
		for _, m := range mapping {
			entries = append(entries, m.ToDomain())
		}

		if version == "" {
			version = "inline-" + uuid.NewString()
		}

		cat, err := catalog.Load(version, entries)
		if err != nil {
			return nil, err
		}

		if c.store != nil {
			if err = c.store.InsertCatalog(ctx, version, entries); err != nil {
				logger.Warnf(ctx, "failed to persist catalog %s: %s", version, err.Error())
			}
		}

		return cat, nil
	}

	if version == "" {
		return nil, constants.NewCodedError("either mapping or catalog_version is required", http.StatusBadRequest)
	}
	if c.store == nil {
		return nil, fmt.Errorf("catalog %s: %w", version, constants.ErrDBNotFound)
	}

	entries, err := c.store.GetCatalogEntries(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("store.GetCatalogEntries: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s: %w", version, constants.ErrDBNotFound)
	}

	return catalog.Load(version, entries)
}
